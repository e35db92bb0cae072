package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt statuses.
const (
	ReceiptPaid      = "PAID"
	ReceiptPending   = "PENDING"
	ReceiptCancelled = "CANCELLED"
)

// Payment methods accepted on receipts.
const (
	PaymentCash         = "CASH"
	PaymentCard         = "CARD"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentMobileMoney  = "MOBILE_MONEY"
	PaymentCheck        = "CHECK"
)

var paymentMethodLabels = map[string]string{
	PaymentCash:         "Cash",
	PaymentCard:         "Credit/Debit Card",
	PaymentBankTransfer: "Bank Transfer",
	PaymentMobileMoney:  "Mobile Money",
	PaymentCheck:        "Check",
}

// PaymentMethodLabel returns the display name of a payment method code.
func PaymentMethodLabel(code string) string {
	if l, ok := paymentMethodLabels[code]; ok {
		return l
	}
	return code
}

// Receipt records a payment received from a client.
// ReceiptNumber is assigned once at creation and never changes.
type Receipt struct {
	ID            uint            `gorm:"primaryKey"`
	ReceiptNumber string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	ClientID      uint            `gorm:"not null;index"`
	Date          time.Time       `gorm:"not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'PAID'"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes         string          `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Client *Client       `gorm:"foreignKey:ClientID"`
	Items  []ReceiptItem `gorm:"constraint:OnDelete:CASCADE"`
}

// ReceiptItem is one line of a receipt. Total is always Quantity × UnitPrice.
type ReceiptItem struct {
	ID          uint            `gorm:"primaryKey"`
	ReceiptID   uint            `gorm:"not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
