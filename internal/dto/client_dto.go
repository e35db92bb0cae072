package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateClientRequest struct {
	Name    string `json:"name"    validate:"required,max=200"`
	Email   string `json:"email"   validate:"required,email,max=254"`
	Phone   string `json:"phone"   validate:"required,max=50"`
	Address string `json:"address"`
	Company string `json:"company" validate:"max=200"`
}

// UpdateClientRequest serves both PUT (all required fields present) and
// PATCH (any subset).
type UpdateClientRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email"   validate:"omitempty,email,max=254"`
	Phone   *string `json:"phone"   validate:"omitempty,min=1,max=50"`
	Address *string `json:"address"`
	Company *string `json:"company" validate:"omitempty,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClientResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Company   string `json:"company"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ClientListResponse struct {
	Results []ClientResponse `json:"results"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}
