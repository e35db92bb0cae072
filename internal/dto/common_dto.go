package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// ListFilter is bound from the query string of collection endpoints.
type ListFilter struct {
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
	Search string `form:"search"`
}

// Normalize applies defaults for zero values.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

func (f ListFilter) Offset() int { return (f.Page - 1) * f.Limit }

// DocumentFilter narrows quotation / receipt listings.
type DocumentFilter struct {
	ListFilter
	ClientID uint   `form:"client"`
	Status   string `form:"status"`
}

// ─── Line items ─────────────────────────────────────────────────────────────

// ItemRequest is one line item of a quotation or receipt. The line total is
// computed by the server.
type ItemRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    int             `json:"quantity"    validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"min=0"`
}

type ItemResponse struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
}

// MessageResponse is returned by action endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
