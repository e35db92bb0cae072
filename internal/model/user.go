package model

import "time"

// User is an API account. Usernames and emails are matched case-insensitively
// on registration and login.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        *string `gorm:"type:varchar(254);index"`
	PasswordHash string  `gorm:"not null"`
	Active       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
