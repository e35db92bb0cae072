package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quotation statuses.
const (
	QuotationDraft    = "DRAFT"
	QuotationSent     = "SENT"
	QuotationAccepted = "ACCEPTED"
	QuotationRejected = "REJECTED"
)

// DefaultQuotationTerms is applied when a quotation is created without terms.
const DefaultQuotationTerms = "Payment is due within 30 days"

// Quotation is a priced offer sent to a client.
// QuotationNumber is assigned once at creation and never changes.
type Quotation struct {
	ID              uint            `gorm:"primaryKey"`
	QuotationNumber string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	ClientID        uint            `gorm:"not null;index"`
	Date            time.Time       `gorm:"type:date;not null"`
	ValidUntil      time.Time       `gorm:"type:date;not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Terms           string          `gorm:"type:text;not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes           string          `gorm:"type:text;not null;default:''"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Client *Client         `gorm:"foreignKey:ClientID"`
	Items  []QuotationItem `gorm:"constraint:OnDelete:CASCADE"`
}

// QuotationItem is one line of a quotation. Total is always Quantity × UnitPrice.
type QuotationItem struct {
	ID          uint            `gorm:"primaryKey"`
	QuotationID uint            `gorm:"not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
