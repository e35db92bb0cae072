package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateQuotationRequest omits quotation_number, subtotal and total: they are
// assigned by the server and ignored if sent.
type CreateQuotationRequest struct {
	ClientID   uint            `json:"client"      validate:"required"`
	Date       string          `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	ValidUntil string          `json:"valid_until" validate:"required,datetime=2006-01-02"`
	Status     string          `json:"status"      validate:"omitempty,oneof=DRAFT SENT ACCEPTED REJECTED"`
	Terms      *string         `json:"terms"`
	Tax        decimal.Decimal `json:"tax"         validate:"min=0"`
	Notes      string          `json:"notes"`
	Items      []ItemRequest   `json:"items"       validate:"dive"`
}

// UpdateQuotationRequest backs PUT and PATCH. For PUT the service requires
// client, date, valid_until, status and tax to be present. A nil Items leaves
// the item set untouched; a non-nil one (even empty) replaces it.
type UpdateQuotationRequest struct {
	ClientID   *uint            `json:"client"      validate:"omitempty,min=1"`
	Date       *string          `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	ValidUntil *string          `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Status     *string          `json:"status"      validate:"omitempty,oneof=DRAFT SENT ACCEPTED REJECTED"`
	Terms      *string          `json:"terms"`
	Tax        *decimal.Decimal `json:"tax"`
	Notes      *string          `json:"notes"`
	Items      *[]ItemRequest   `json:"items"       validate:"omitempty,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type QuotationResponse struct {
	ID              uint           `json:"id"`
	QuotationNumber string         `json:"quotation_number"`
	ClientID        uint           `json:"client"`
	ClientName      string         `json:"client_name"`
	ClientEmail     string         `json:"client_email"`
	Date            string         `json:"date"`
	ValidUntil      string         `json:"valid_until"`
	Status          string         `json:"status"`
	Terms           string         `json:"terms"`
	Subtotal        string         `json:"subtotal"`
	Tax             string         `json:"tax"`
	Total           string         `json:"total"`
	Notes           string         `json:"notes"`
	Items           []ItemResponse `json:"items"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

type QuotationListResponse struct {
	Results []QuotationResponse `json:"results"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
}
