package service

import (
	"context"
	"errors"
	"time"

	"eventdesk/internal/apierror"
	"eventdesk/internal/dto"
	"eventdesk/internal/metrics"
	"eventdesk/internal/model"
	"eventdesk/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuotationService interface {
	Create(ctx context.Context, req dto.CreateQuotationRequest) (*dto.QuotationResponse, error)
	Get(ctx context.Context, id uint) (*dto.QuotationResponse, error)
	List(ctx context.Context, filter dto.DocumentFilter) (*dto.QuotationListResponse, error)
	// Update applies req. With full set (PUT) client, date, valid_until,
	// status and tax must be present. Items are replaced only when supplied.
	Update(ctx context.Context, id uint, req dto.UpdateQuotationRequest, full bool) (*dto.QuotationResponse, error)
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]model.Quotation, error)
}

type quotationService struct {
	repo      repository.QuotationRepository
	clients   repository.ClientRepository
	numbering NumberingService
}

func NewQuotationService(
	repo repository.QuotationRepository,
	clients repository.ClientRepository,
	numbering NumberingService,
) QuotationService {
	return &quotationService{repo: repo, clients: clients, numbering: numbering}
}

// ── Create ────────────────────────────────────────────────────────────────────
// One transaction: allocate number, insert quotation, insert items. Totals are
// computed up front from the request and stored with the quotation row.

func (s *quotationService) Create(ctx context.Context, req dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	var errs []string
	if msg := checkMoney("tax", req.Tax); msg != "" {
		errs = append(errs, msg)
	}
	errs = append(errs, checkItems(req.Items)...)
	totals := CalculateTotals(linesFromItems(req.Items), req.Tax)
	errs = append(errs, checkTotals(totals)...)
	if msg := totalTooLarge(totals.Total); msg != "" {
		errs = append(errs, msg)
	}

	date := today()
	if req.Date != "" {
		d, msg := parseDate("date", req.Date)
		if msg != "" {
			errs = append(errs, msg)
		}
		date = d
	}
	validUntil, msg := parseDate("valid_until", req.ValidUntil)
	if msg != "" {
		errs = append(errs, msg)
	}
	if len(errs) > 0 {
		return nil, apierror.Validation("Invalid request body", errs...)
	}
	if err := requireClient(ctx, s.clients, req.ClientID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.QuotationDraft
	}
	terms := model.DefaultQuotationTerms
	if req.Terms != nil {
		terms = *req.Terms
	}

	q := &model.Quotation{
		ClientID:   req.ClientID,
		Date:       date,
		ValidUntil: validUntil,
		Status:     status,
		Terms:      terms,
		Subtotal:   totals.Subtotal,
		Tax:        req.Tax,
		Total:      totals.Total,
		Notes:      req.Notes,
	}
	items := quotationItems(req.Items, totals)

	var created *model.Quotation
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.numbering.Next(ctx, tx, model.KindQuotation)
		if err != nil {
			return err
		}
		q.QuotationNumber = number
		if err := s.repo.Create(ctx, tx, q); err != nil {
			return err
		}
		if err := s.repo.ReplaceItems(ctx, tx, q.ID, items); err != nil {
			return err
		}
		created, err = s.repo.FindByIDTx(ctx, tx, q.ID)
		return err
	})
	if err != nil {
		return nil, mapDocumentWriteErr("Quotation", err)
	}

	metrics.ObserveDocumentCreated(string(model.KindQuotation))
	log.Info().
		Uint("quotation_id", created.ID).
		Str("number", created.QuotationNumber).
		Str("total", created.Total.StringFixed(2)).
		Msg("quotation created")
	return quotationToResponse(created), nil
}

func (s *quotationService) Get(ctx context.Context, id uint) (*dto.QuotationResponse, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Quotation not found")
		}
		return nil, err
	}
	return quotationToResponse(q), nil
}

func (s *quotationService) List(ctx context.Context, filter dto.DocumentFilter) (*dto.QuotationListResponse, error) {
	filter.Normalize()
	quotations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.QuotationResponse, len(quotations))
	for i := range quotations {
		data[i] = *quotationToResponse(&quotations[i])
	}
	return &dto.QuotationListResponse{Results: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *quotationService) ListAll(ctx context.Context) ([]model.Quotation, error) {
	return s.repo.ListAll(ctx)
}

// ── Update ────────────────────────────────────────────────────────────────────

func (s *quotationService) Update(ctx context.Context, id uint, req dto.UpdateQuotationRequest, full bool) (*dto.QuotationResponse, error) {
	var errs []string
	if full {
		if req.ClientID == nil {
			errs = append(errs, "client: this field is required")
		}
		if req.Date == nil {
			errs = append(errs, "date: this field is required")
		}
		if req.ValidUntil == nil {
			errs = append(errs, "valid_until: this field is required")
		}
		if req.Status == nil {
			errs = append(errs, "status: this field is required")
		}
		if req.Tax == nil {
			errs = append(errs, "tax: this field is required")
		}
	}
	if req.Tax != nil {
		if msg := checkMoney("tax", *req.Tax); msg != "" {
			errs = append(errs, msg)
		}
	}
	if req.Items != nil {
		errs = append(errs, checkItems(*req.Items)...)
		errs = append(errs, checkTotals(CalculateTotals(linesFromItems(*req.Items), decimal.Zero))...)
	}
	var date, validUntil time.Time
	if req.Date != nil {
		var msg string
		if date, msg = parseDate("date", *req.Date); msg != "" {
			errs = append(errs, msg)
		}
	}
	if req.ValidUntil != nil {
		var msg string
		if validUntil, msg = parseDate("valid_until", *req.ValidUntil); msg != "" {
			errs = append(errs, msg)
		}
	}
	if len(errs) > 0 {
		return nil, apierror.Validation("Invalid request body", errs...)
	}
	if req.ClientID != nil {
		if err := requireClient(ctx, s.clients, *req.ClientID); err != nil {
			return nil, err
		}
	}

	var updated *model.Quotation
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Lock(ctx, tx, id); err != nil {
			return err
		}
		q, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.ClientID != nil {
			q.ClientID = *req.ClientID
		}
		if req.Date != nil {
			q.Date = date
		}
		if req.ValidUntil != nil {
			q.ValidUntil = validUntil
		}
		if req.Status != nil {
			q.Status = *req.Status
		}
		if req.Terms != nil {
			q.Terms = *req.Terms
		}
		if req.Notes != nil {
			q.Notes = *req.Notes
		}
		if req.Tax != nil {
			q.Tax = *req.Tax
		}

		if req.Items != nil {
			totals := CalculateTotals(linesFromItems(*req.Items), q.Tax)
			if err := s.repo.ReplaceItems(ctx, tx, q.ID, quotationItems(*req.Items, totals)); err != nil {
				return err
			}
			q.Subtotal = totals.Subtotal
		}
		q.Total = q.Subtotal.Add(q.Tax)
		if msg := totalTooLarge(q.Total); msg != "" {
			return apierror.Validation("Invalid request body", msg)
		}

		q.Client = nil
		q.Items = nil
		if err := s.repo.UpdateFields(ctx, tx, q); err != nil {
			return err
		}
		updated, err = s.repo.FindByIDTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, mapDocumentWriteErr("Quotation", err)
	}

	log.Info().
		Uint("quotation_id", updated.ID).
		Bool("items_replaced", req.Items != nil).
		Msg("quotation updated")
	return quotationToResponse(updated), nil
}

func (s *quotationService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapDocumentWriteErr("Quotation", err)
	}
	log.Info().Uint("quotation_id", id).Msg("quotation deleted")
	return nil
}

func quotationItems(reqs []dto.ItemRequest, totals Totals) []model.QuotationItem {
	items := make([]model.QuotationItem, len(reqs))
	for i, it := range reqs {
		items[i] = model.QuotationItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       totals.LineTotals[i],
		}
	}
	return items
}

func quotationToResponse(q *model.Quotation) *dto.QuotationResponse {
	resp := &dto.QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ClientID:        q.ClientID,
		Date:            q.Date.Format(dateLayout),
		ValidUntil:      q.ValidUntil.Format(dateLayout),
		Status:          q.Status,
		Terms:           q.Terms,
		Subtotal:        q.Subtotal.StringFixed(2),
		Tax:             q.Tax.StringFixed(2),
		Total:           q.Total.StringFixed(2),
		Notes:           q.Notes,
		Items:           make([]dto.ItemResponse, len(q.Items)),
		CreatedAt:       q.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       q.UpdatedAt.Format(time.RFC3339),
	}
	if q.Client != nil {
		resp.ClientName = q.Client.Name
		resp.ClientEmail = q.Client.Email
	}
	for i, it := range q.Items {
		resp.Items[i] = dto.ItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Total:       it.Total.StringFixed(2),
		}
	}
	return resp
}
