package service

import (
	"context"
	"testing"

	"eventdesk/internal/apierror"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreate_DuplicateEmailIsConflict(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.clients)
	req := dto.CreateClientRequest{Name: "Acme", Email: "acme@example.com", Phone: "1"}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	req.Email = "ACME@example.com"
	_, err = svc.Create(context.Background(), req)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestClientUpdate_PatchAndPut(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.clients)
	created, err := svc.Create(context.Background(), dto.CreateClientRequest{
		Name: "Acme", Email: "acme@example.com", Phone: "1", Company: "Acme Ltd",
	})
	require.NoError(t, err)

	patched, err := svc.Update(context.Background(), created.ID, dto.UpdateClientRequest{Phone: ptr("2")}, false)
	require.NoError(t, err)
	assert.Equal(t, "2", patched.Phone)
	assert.Equal(t, "Acme", patched.Name)

	_, err = svc.Update(context.Background(), created.ID, dto.UpdateClientRequest{Name: ptr("New")}, true)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	put, err := svc.Update(context.Background(), created.ID, dto.UpdateClientRequest{
		Name: ptr("New"), Email: ptr("new@example.com"), Phone: ptr("3"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", put.Email)
	assert.Equal(t, "Acme Ltd", put.Company)
}

func TestClientDelete_CascadesDocuments(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	other := f.client(t, "other@example.com")

	_, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)
	_, err = f.receiptService().Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)
	kept, err := f.quotationService().Create(context.Background(), quotationRequest(other.ID))
	require.NoError(t, err)

	require.NoError(t, NewClientService(f.clients).Delete(context.Background(), c.ID))

	count := func(m interface{}) int64 {
		var n int64
		require.NoError(t, f.db.Model(m).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&model.Quotation{}))
	assert.Equal(t, int64(2), count(&model.QuotationItem{}))
	assert.Zero(t, count(&model.Receipt{}))
	assert.Zero(t, count(&model.ReceiptItem{}))

	_, err = f.quotationService().Get(context.Background(), kept.ID)
	assert.NoError(t, err)
}

func TestClientDelete_NotFound(t *testing.T) {
	f := newFixture(t)
	err := NewClientService(f.clients).Delete(context.Background(), 7)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestClientList_Search(t *testing.T) {
	f := newFixture(t)
	f.client(t, "alpha@example.com")
	f.client(t, "beta@example.com")

	resp, err := NewClientService(f.clients).List(context.Background(), dto.ListFilter{Search: "ALPHA"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "alpha@example.com", resp.Results[0].Email)
}
