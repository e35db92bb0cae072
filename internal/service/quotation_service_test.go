package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"eventdesk/internal/apierror"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func quotationRequest(clientID uint) dto.CreateQuotationRequest {
	return dto.CreateQuotationRequest{
		ClientID:   clientID,
		ValidUntil: "2030-01-31",
		Tax:        dec("5.00"),
		Items: []dto.ItemRequest{
			{Description: "Sound system", Quantity: 2, UnitPrice: dec("50.00")},
			{Description: "Lighting", Quantity: 1, UnitPrice: dec("25.00")},
		},
	}
}

func TestQuotationCreate_ComputesTotalsAndNumber(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	resp, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	assert.Equal(t, "QT-00001", resp.QuotationNumber)
	assert.Equal(t, "125.00", resp.Subtotal)
	assert.Equal(t, "5.00", resp.Tax)
	assert.Equal(t, "130.00", resp.Total)
	assert.Equal(t, model.QuotationDraft, resp.Status)
	assert.Equal(t, model.DefaultQuotationTerms, resp.Terms)
	assert.Equal(t, "acme@example.com", resp.ClientEmail)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Sound system", resp.Items[0].Description)
	assert.Equal(t, "100.00", resp.Items[0].Total)
	assert.Equal(t, "Lighting", resp.Items[1].Description)
}

func TestQuotationCreate_SequentialNumbers(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()

	for i := 1; i <= 3; i++ {
		resp, err := svc.Create(context.Background(), quotationRequest(c.ID))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("QT-%05d", i), resp.QuotationNumber)
	}
}

func TestQuotationCreate_ValidationErrorsAreItemized(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	req := quotationRequest(c.ID)
	req.Tax = dec("-1")
	req.Items[0].Quantity = 0
	req.Items[1].UnitPrice = dec("1.999")

	_, err := f.quotationService().Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Len(t, apiErr.Details, 3)

	var n int64
	f.db.Model(&model.Quotation{}).Count(&n)
	assert.Zero(t, n)
}

func TestQuotationCreate_UnknownClient(t *testing.T) {
	f := newFixture(t)

	_, err := f.quotationService().Create(context.Background(), quotationRequest(999))
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

// failingItems fails every item replacement after the number was allocated.
type failingItems struct {
	repository.QuotationRepository
}

func (failingItems) ReplaceItems(context.Context, *gorm.DB, uint, []model.QuotationItem) error {
	return errors.New("disk full")
}

func TestQuotationCreate_RollbackReturnsNumber(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	broken := NewQuotationService(failingItems{f.quotations}, f.clients, f.numbering)
	_, err := broken.Create(context.Background(), quotationRequest(c.ID))
	require.Error(t, err)

	var n int64
	f.db.Model(&model.Quotation{}).Count(&n)
	assert.Zero(t, n, "no partial quotation may remain")

	resp, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "QT-00001", resp.QuotationNumber)
}

func TestQuotationCreate_SeedsFromLastIssuedNumber(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	// rows created before the counter existed
	for _, num := range []string{"QT-00041", "QT-00007"} {
		require.NoError(t, f.db.Create(&model.Quotation{
			QuotationNumber: num, ClientID: c.ID, Status: model.QuotationDraft,
		}).Error)
	}

	resp, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)
	// insertion order, not the highest number
	assert.Equal(t, "QT-00008", resp.QuotationNumber)
}

func TestQuotationCreate_CorruptLastNumberIsFatal(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	require.NoError(t, f.db.Create(&model.Quotation{
		QuotationNumber: "QT-ABCDE", ClientID: c.ID, Status: model.QuotationDraft,
	}).Error)

	_, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	assert.ErrorIs(t, err, repository.ErrCorruptDocumentNumber)
	assert.Equal(t, apierror.KindInternal, apierror.KindOf(err))
}

func TestQuotationCreate_ConcurrentNumbersAreUnique(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()

	const n = 50
	var (
		mu      sync.Mutex
		numbers = make(map[string]bool, n)
	)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			resp, err := svc.Create(ctx, quotationRequest(c.ID))
			if err != nil {
				return err
			}
			mu.Lock()
			numbers[resp.QuotationNumber] = true
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, numbers, n)
	pattern := regexp.MustCompile(`^QT-\d{5}$`)
	for num := range numbers {
		assert.Regexp(t, pattern, num)
	}
	for i := 1; i <= n; i++ {
		num := fmt.Sprintf("QT-%05d", i)
		assert.True(t, numbers[num], "missing %s", num)
	}
}

func TestQuotationCreate_AmountsBeyondColumnRange(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	req := quotationRequest(c.ID)
	req.Items = []dto.ItemRequest{{Description: "Stage", Quantity: 1000000, UnitPrice: dec("99999999999.99")}}
	_, err := f.quotationService().Create(context.Background(), req)

	kind, msgs := details(t, err)
	assert.Equal(t, apierror.KindValidation, kind)
	assert.ElementsMatch(t, []string{
		"items[0].unit_price: must be at most 9999999999.99",
		"items[0]: line total must be at most 9999999999.99",
		"subtotal: must be at most 9999999999.99",
		"total: must be at most 9999999999.99",
	}, msgs)

	var n int64
	f.db.Model(&model.Quotation{}).Count(&n)
	assert.Zero(t, n)
}

func TestQuotationCreate_LargestAmountsAccepted(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	req := quotationRequest(c.ID)
	req.Tax = dec("0")
	req.Items = []dto.ItemRequest{{Description: "Venue", Quantity: 1, UnitPrice: dec("9999999999.99")}}
	resp, err := f.quotationService().Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", resp.Total)
}

func TestQuotationUpdate_TaxPushingTotalOutOfRange(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()

	req := quotationRequest(c.ID)
	req.Tax = dec("0")
	req.Items = []dto.ItemRequest{{Description: "Venue", Quantity: 1, UnitPrice: dec("9999999999.00")}}
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{Tax: ptr(dec("5.00"))}, false)
	kind, msgs := details(t, err)
	assert.Equal(t, apierror.KindValidation, kind)
	assert.Equal(t, []string{"total: must be at most 9999999999.99"}, msgs)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.Tax)
	assert.Equal(t, "9999999999.00", got.Total)
}

func TestQuotationUpdate_ReplacesItems(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()
	created, err := svc.Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	items := []dto.ItemRequest{{Description: "Tent", Quantity: 3, UnitPrice: dec("10.00")}}
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{Items: &items}, false)
	require.NoError(t, err)

	assert.Equal(t, "30.00", updated.Subtotal)
	assert.Equal(t, "35.00", updated.Total)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Tent", updated.Items[0].Description)
	assert.Equal(t, created.QuotationNumber, updated.QuotationNumber)

	var n int64
	f.db.Model(&model.QuotationItem{}).Where("quotation_id = ?", created.ID).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestQuotationUpdate_OmittedItemsUntouched(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()
	created, err := svc.Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{
		Status: ptr(model.QuotationSent),
		Notes:  ptr("call before delivery"),
	}, false)
	require.NoError(t, err)

	assert.Equal(t, model.QuotationSent, updated.Status)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, "130.00", updated.Total)
}

func TestQuotationUpdate_EmptyItemsClearsSubtotal(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()
	created, err := svc.Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	empty := []dto.ItemRequest{}
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{Items: &empty}, false)
	require.NoError(t, err)

	assert.Empty(t, updated.Items)
	assert.Equal(t, "0.00", updated.Subtotal)
	assert.Equal(t, updated.Tax, updated.Total)
}

func TestQuotationUpdate_TaxOnlyRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()
	created, err := svc.Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{Tax: ptr(dec("20.00"))}, false)
	require.NoError(t, err)
	assert.Equal(t, "125.00", updated.Subtotal)
	assert.Equal(t, "145.00", updated.Total)
}

func TestQuotationUpdate_PutRequiresAllFields(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()
	created, err := svc.Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{Status: ptr(model.QuotationSent)}, true)
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.KindValidation, apiErr.Kind)
	assert.Contains(t, apiErr.Details, "valid_until: this field is required")
}

func TestQuotationUpdate_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.quotationService().Update(context.Background(), 42, dto.UpdateQuotationRequest{Notes: ptr("x")}, false)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestQuotationList_NewestFirstWithFilter(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "a@example.com")
	b := f.client(t, "b@example.com")
	svc := f.quotationService()
	for _, id := range []uint{a.ID, b.ID, a.ID} {
		_, err := svc.Create(context.Background(), quotationRequest(id))
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), dto.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 50, all.Limit)
	assert.Equal(t, "QT-00003", all.Results[0].QuotationNumber)

	onlyA, err := svc.List(context.Background(), dto.DocumentFilter{ClientID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), onlyA.Total)
}

func TestQuotationDelete(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.quotationService()
	created, err := svc.Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
	var n int64
	f.db.Model(&model.QuotationItem{}).Count(&n)
	assert.Zero(t, n)

	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(svc.Delete(context.Background(), created.ID)))
}
