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

type ReceiptService interface {
	Create(ctx context.Context, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error)
	Get(ctx context.Context, id uint) (*dto.ReceiptResponse, error)
	List(ctx context.Context, filter dto.DocumentFilter) (*dto.ReceiptListResponse, error)
	// Update applies req. With full set (PUT) client, payment_method, status
	// and tax must be present. Items are replaced only when supplied.
	Update(ctx context.Context, id uint, req dto.UpdateReceiptRequest, full bool) (*dto.ReceiptResponse, error)
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]model.Receipt, error)
}

type receiptService struct {
	repo      repository.ReceiptRepository
	clients   repository.ClientRepository
	numbering NumberingService
}

func NewReceiptService(
	repo repository.ReceiptRepository,
	clients repository.ClientRepository,
	numbering NumberingService,
) ReceiptService {
	return &receiptService{repo: repo, clients: clients, numbering: numbering}
}

func (s *receiptService) Create(ctx context.Context, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
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
	if len(errs) > 0 {
		return nil, apierror.Validation("Invalid request body", errs...)
	}
	if err := requireClient(ctx, s.clients, req.ClientID); err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	status := req.Status
	if status == "" {
		status = model.ReceiptPaid
	}

	rc := &model.Receipt{
		ClientID:      req.ClientID,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		Subtotal:      totals.Subtotal,
		Tax:           req.Tax,
		Total:         totals.Total,
		Notes:         req.Notes,
	}
	items := receiptItems(req.Items, totals)

	var created *model.Receipt
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.numbering.Next(ctx, tx, model.KindReceipt)
		if err != nil {
			return err
		}
		rc.ReceiptNumber = number
		if err := s.repo.Create(ctx, tx, rc); err != nil {
			return err
		}
		if err := s.repo.ReplaceItems(ctx, tx, rc.ID, items); err != nil {
			return err
		}
		created, err = s.repo.FindByIDTx(ctx, tx, rc.ID)
		return err
	})
	if err != nil {
		return nil, mapDocumentWriteErr("Receipt", err)
	}

	metrics.ObserveDocumentCreated(string(model.KindReceipt))
	log.Info().
		Uint("receipt_id", created.ID).
		Str("number", created.ReceiptNumber).
		Str("total", created.Total.StringFixed(2)).
		Msg("receipt created")
	return receiptToResponse(created), nil
}

func (s *receiptService) Get(ctx context.Context, id uint) (*dto.ReceiptResponse, error) {
	rc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Receipt not found")
		}
		return nil, err
	}
	return receiptToResponse(rc), nil
}

func (s *receiptService) List(ctx context.Context, filter dto.DocumentFilter) (*dto.ReceiptListResponse, error) {
	filter.Normalize()
	receipts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReceiptResponse, len(receipts))
	for i := range receipts {
		data[i] = *receiptToResponse(&receipts[i])
	}
	return &dto.ReceiptListResponse{Results: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *receiptService) ListAll(ctx context.Context) ([]model.Receipt, error) {
	return s.repo.ListAll(ctx)
}

func (s *receiptService) Update(ctx context.Context, id uint, req dto.UpdateReceiptRequest, full bool) (*dto.ReceiptResponse, error) {
	var errs []string
	if full {
		if req.ClientID == nil {
			errs = append(errs, "client: this field is required")
		}
		if req.PaymentMethod == nil {
			errs = append(errs, "payment_method: this field is required")
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
	if len(errs) > 0 {
		return nil, apierror.Validation("Invalid request body", errs...)
	}
	if req.ClientID != nil {
		if err := requireClient(ctx, s.clients, *req.ClientID); err != nil {
			return nil, err
		}
	}

	var updated *model.Receipt
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Lock(ctx, tx, id); err != nil {
			return err
		}
		rc, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.ClientID != nil {
			rc.ClientID = *req.ClientID
		}
		if req.Date != nil {
			rc.Date = req.Date.UTC()
		}
		if req.PaymentMethod != nil {
			rc.PaymentMethod = *req.PaymentMethod
		}
		if req.Status != nil {
			rc.Status = *req.Status
		}
		if req.Notes != nil {
			rc.Notes = *req.Notes
		}
		if req.Tax != nil {
			rc.Tax = *req.Tax
		}

		if req.Items != nil {
			totals := CalculateTotals(linesFromItems(*req.Items), rc.Tax)
			if err := s.repo.ReplaceItems(ctx, tx, rc.ID, receiptItems(*req.Items, totals)); err != nil {
				return err
			}
			rc.Subtotal = totals.Subtotal
		}
		rc.Total = rc.Subtotal.Add(rc.Tax)
		if msg := totalTooLarge(rc.Total); msg != "" {
			return apierror.Validation("Invalid request body", msg)
		}

		rc.Client = nil
		rc.Items = nil
		if err := s.repo.UpdateFields(ctx, tx, rc); err != nil {
			return err
		}
		updated, err = s.repo.FindByIDTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, mapDocumentWriteErr("Receipt", err)
	}

	log.Info().
		Uint("receipt_id", updated.ID).
		Bool("items_replaced", req.Items != nil).
		Msg("receipt updated")
	return receiptToResponse(updated), nil
}

func (s *receiptService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapDocumentWriteErr("Receipt", err)
	}
	log.Info().Uint("receipt_id", id).Msg("receipt deleted")
	return nil
}

func receiptItems(reqs []dto.ItemRequest, totals Totals) []model.ReceiptItem {
	items := make([]model.ReceiptItem, len(reqs))
	for i, it := range reqs {
		items[i] = model.ReceiptItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       totals.LineTotals[i],
		}
	}
	return items
}

func receiptToResponse(rc *model.Receipt) *dto.ReceiptResponse {
	resp := &dto.ReceiptResponse{
		ID:            rc.ID,
		ReceiptNumber: rc.ReceiptNumber,
		ClientID:      rc.ClientID,
		Date:          rc.Date,
		PaymentMethod: rc.PaymentMethod,
		Status:        rc.Status,
		Subtotal:      rc.Subtotal.StringFixed(2),
		Tax:           rc.Tax.StringFixed(2),
		Total:         rc.Total.StringFixed(2),
		Notes:         rc.Notes,
		Items:         make([]dto.ItemResponse, len(rc.Items)),
		CreatedAt:     rc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rc.UpdatedAt.Format(time.RFC3339),
	}
	if rc.Client != nil {
		resp.ClientName = rc.Client.Name
		resp.ClientEmail = rc.Client.Email
	}
	for i, it := range rc.Items {
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
