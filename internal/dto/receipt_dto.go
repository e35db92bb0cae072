package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateReceiptRequest struct {
	ClientID      uint            `json:"client"         validate:"required"`
	Date          *time.Time      `json:"date"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD BANK_TRANSFER MOBILE_MONEY CHECK"`
	Status        string          `json:"status"         validate:"omitempty,oneof=PAID PENDING CANCELLED"`
	Tax           decimal.Decimal `json:"tax"            validate:"min=0"`
	Notes         string          `json:"notes"`
	Items         []ItemRequest   `json:"items"          validate:"dive"`
}

// UpdateReceiptRequest backs PUT and PATCH; see UpdateQuotationRequest.
type UpdateReceiptRequest struct {
	ClientID      *uint            `json:"client"         validate:"omitempty,min=1"`
	Date          *time.Time       `json:"date"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,oneof=CASH CARD BANK_TRANSFER MOBILE_MONEY CHECK"`
	Status        *string          `json:"status"         validate:"omitempty,oneof=PAID PENDING CANCELLED"`
	Tax           *decimal.Decimal `json:"tax"`
	Notes         *string          `json:"notes"`
	Items         *[]ItemRequest   `json:"items"          validate:"omitempty,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReceiptResponse struct {
	ID            uint           `json:"id"`
	ReceiptNumber string         `json:"receipt_number"`
	ClientID      uint           `json:"client"`
	ClientName    string         `json:"client_name"`
	ClientEmail   string         `json:"client_email"`
	Date          time.Time      `json:"date"`
	PaymentMethod string         `json:"payment_method"`
	Status        string         `json:"status"`
	Subtotal      string         `json:"subtotal"`
	Tax           string         `json:"tax"`
	Total         string         `json:"total"`
	Notes         string         `json:"notes"`
	Items         []ItemResponse `json:"items"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

type ReceiptListResponse struct {
	Results []ReceiptResponse `json:"results"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
}
