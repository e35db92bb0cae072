package service

import (
	"context"
	"testing"

	"eventdesk/internal/model"
	"eventdesk/internal/repository"
	"eventdesk/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	clients    repository.ClientRepository
	quotations repository.QuotationRepository
	receipts   repository.ReceiptRepository
	numbering  NumberingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:         db,
		clients:    repository.NewClientRepository(db),
		quotations: repository.NewQuotationRepository(db),
		receipts:   repository.NewReceiptRepository(db),
		numbering:  NewNumberingService(repository.NewSequenceRepository(db)),
	}
}

func (f *fixture) quotationService() QuotationService {
	return NewQuotationService(f.quotations, f.clients, f.numbering)
}

func (f *fixture) receiptService() ReceiptService {
	return NewReceiptService(f.receipts, f.clients, f.numbering)
}

func (f *fixture) client(t *testing.T, email string) *model.Client {
	t.Helper()
	c := &model.Client{Name: "Client " + email, Email: email, Phone: "555-0100"}
	require.NoError(t, f.clients.Create(context.Background(), c))
	return c
}

func ptr[T any](v T) *T { return &v }
