package model

import "time"

// Client is a customer of the event company. Deleting a client removes its
// quotations and receipts together with their items.
type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(200);not null"`
	Email     string `gorm:"type:varchar(254);uniqueIndex;not null"`
	Phone     string `gorm:"type:varchar(50);not null"`
	Address   string `gorm:"type:text;not null;default:''"`
	Company   string `gorm:"type:varchar(200);not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Quotations []Quotation `gorm:"constraint:OnDelete:CASCADE"`
	Receipts   []Receipt   `gorm:"constraint:OnDelete:CASCADE"`
}
