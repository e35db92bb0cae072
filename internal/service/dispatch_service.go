package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eventdesk/internal/apierror"
	"eventdesk/internal/config"
	"eventdesk/internal/metrics"
	"eventdesk/internal/model"
	"eventdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Renderer writes a PDF rendition of doc to path.
type Renderer interface {
	Render(doc *model.Document, path string) error
}

// Notifier delivers an HTML email with an optional attachment.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody, attachmentPath string) error
}

// DispatchService renders a document and emails it to its client. It never
// writes to the document; sending twice sends two emails.
type DispatchService interface {
	SendQuotation(ctx context.Context, id uint) (*DispatchResult, error)
	SendReceipt(ctx context.Context, id uint) (*DispatchResult, error)
}

type DispatchResult struct {
	Number    string
	Recipient string
}

type dispatchService struct {
	quotations  repository.QuotationRepository
	receipts    repository.ReceiptRepository
	renderer    Renderer
	notifier    Notifier
	companyName string
	storagePath string
}

func NewDispatchService(
	quotations repository.QuotationRepository,
	receipts repository.ReceiptRepository,
	renderer Renderer,
	notifier Notifier,
	cfg *config.Config,
) DispatchService {
	return &dispatchService{
		quotations:  quotations,
		receipts:    receipts,
		renderer:    renderer,
		notifier:    notifier,
		companyName: cfg.CompanyName,
		storagePath: cfg.PDFStoragePath,
	}
}

func (s *dispatchService) SendQuotation(ctx context.Context, id uint) (*DispatchResult, error) {
	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Quotation not found")
		}
		return nil, err
	}
	return s.dispatch(ctx, q.Document())
}

func (s *dispatchService) SendReceipt(ctx context.Context, id uint) (*DispatchResult, error) {
	rc, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Receipt not found")
		}
		return nil, err
	}
	return s.dispatch(ctx, rc.Document())
}

// dispatch runs outside any transaction; the rendered file is removed once
// the send attempt is over, whatever its outcome.
func (s *dispatchService) dispatch(ctx context.Context, doc *model.Document) (res *DispatchResult, err error) {
	start := time.Now()
	kind := string(doc.Kind)
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveDispatch(kind, result, time.Since(start))
	}()

	if doc.ClientEmail == "" {
		return nil, apierror.Validation("Client has no email address")
	}

	name := fmt.Sprintf("%s_%d_%s.pdf", strings.ToLower(doc.Kind.Label()), doc.ID, uuid.NewString())
	path := filepath.Join(s.storagePath, name)
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn().Err(rmErr).Str("path", path).Msg("could not remove rendered document")
		}
	}()

	if err := s.renderer.Render(doc, path); err != nil {
		log.Error().Err(err).Str("number", doc.Number).Msg("render failed")
		return nil, apierror.Dispatch("Failed to render "+strings.ToLower(doc.Kind.Label()), err)
	}

	body, err := emailBody(doc, s.companyName)
	if err != nil {
		return nil, err
	}
	subject := fmt.Sprintf("%s %s from %s", doc.Kind.Label(), doc.Number, s.companyName)
	if err := s.notifier.Send(ctx, doc.ClientEmail, subject, body, path); err != nil {
		log.Error().Err(err).Str("number", doc.Number).Str("to", doc.ClientEmail).Msg("send failed")
		return nil, apierror.Dispatch("Failed to send email", err)
	}

	log.Info().Str("number", doc.Number).Str("to", doc.ClientEmail).Msg("document dispatched")
	return &DispatchResult{Number: doc.Number, Recipient: doc.ClientEmail}, nil
}

var emailTemplate = template.Must(template.New("document").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
<p>Dear {{.ClientName}},</p>
<p>Please find attached your {{.Noun}} {{.Number}} from {{.Company}}.</p>
<table>
<tr><td><strong>{{.Label}} number:</strong></td><td>{{.Number}}</td></tr>
<tr><td><strong>Date:</strong></td><td>{{.Date}}</td></tr>
{{- if .ValidUntil}}
<tr><td><strong>Valid until:</strong></td><td>{{.ValidUntil}}</td></tr>
{{- end}}
{{- if .PaymentMethod}}
<tr><td><strong>Payment method:</strong></td><td>{{.PaymentMethod}}</td></tr>
{{- end}}
<tr><td><strong>Total:</strong></td><td>{{.Total}}</td></tr>
</table>
<p>Best regards,<br>{{.Company}}</p>
</body>
</html>`))

func emailBody(doc *model.Document, company string) (string, error) {
	data := struct {
		ClientName, Noun, Label, Number, Company string
		Date, ValidUntil, PaymentMethod, Total   string
	}{
		ClientName: doc.ClientName,
		Noun:       strings.ToLower(doc.Kind.Label()),
		Label:      doc.Kind.Label(),
		Number:     doc.Number,
		Company:    company,
		Date:       doc.Date.Format("January 2, 2006"),
		Total:      doc.Total.StringFixed(2),
	}
	if doc.ValidUntil != nil {
		data.ValidUntil = doc.ValidUntil.Format("January 2, 2006")
	}
	if doc.PaymentMethod != "" {
		data.PaymentMethod = model.PaymentMethodLabel(doc.PaymentMethod)
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("email body: %w", err)
	}
	return buf.String(), nil
}
