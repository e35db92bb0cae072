package service

import (
	"context"
	"testing"
	"time"

	"eventdesk/internal/apierror"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiptRequest(clientID uint) dto.CreateReceiptRequest {
	return dto.CreateReceiptRequest{
		ClientID:      clientID,
		PaymentMethod: model.PaymentCash,
		Tax:           dec("2.00"),
		Items: []dto.ItemRequest{
			{Description: "Catering deposit", Quantity: 1, UnitPrice: dec("80.00")},
		},
	}
}

func TestReceiptCreate_Defaults(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	before := time.Now().Add(-time.Second)
	resp, err := f.receiptService().Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)

	assert.Equal(t, "RC-00001", resp.ReceiptNumber)
	assert.Equal(t, model.ReceiptPaid, resp.Status)
	assert.Equal(t, "80.00", resp.Subtotal)
	assert.Equal(t, "82.00", resp.Total)
	assert.True(t, resp.Date.After(before))
}

func TestReceiptItemsBelongToTheirReceipt(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.receiptService()

	first, err := svc.Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)

	items := []dto.ItemRequest{
		{Description: "Chairs", Quantity: 3, UnitPrice: dec("10.00")},
		{Description: "Tables", Quantity: 1, UnitPrice: dec("20.00")},
	}
	_, err = svc.Update(context.Background(), second.ID, dto.UpdateReceiptRequest{Items: &items}, false)
	require.NoError(t, err)

	var rows []model.ReceiptItem
	require.NoError(t, f.db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, first.ID, rows[0].ReceiptID)
	for _, it := range rows[1:] {
		assert.Equal(t, second.ID, it.ReceiptID)
	}

	got, err := svc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Catering deposit", got.Items[0].Description)
}

func TestReceiptAndQuotationNumbersAreIndependent(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")

	_, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)
	rc, err := f.receiptService().Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "RC-00001", rc.ReceiptNumber)
}

func TestReceiptUpdate_ItemsWithoutTaxChange(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.receiptService()
	created, err := svc.Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)

	items := []dto.ItemRequest{{Description: "Chairs", Quantity: 3, UnitPrice: dec("10.00")}}
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateReceiptRequest{Items: &items}, false)
	require.NoError(t, err)

	assert.Equal(t, "30.00", updated.Subtotal)
	assert.Equal(t, "2.00", updated.Tax)
	assert.Equal(t, "32.00", updated.Total)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Chairs", updated.Items[0].Description)
}

func TestReceiptUpdate_PutRequiresPaymentMethod(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	svc := f.receiptService()
	created, err := svc.Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, dto.UpdateReceiptRequest{
		ClientID: &c.ID,
		Status:   ptr(model.ReceiptPending),
		Tax:      ptr(dec("0")),
	}, true)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestReceiptUpdate_ChangeClient(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "a@example.com")
	b := f.client(t, "b@example.com")
	svc := f.receiptService()
	created, err := svc.Create(context.Background(), receiptRequest(a.ID))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateReceiptRequest{ClientID: &b.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ClientID)
	assert.Equal(t, "b@example.com", updated.ClientEmail)
}
