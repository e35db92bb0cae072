package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eventdesk/internal/apierror"
	"eventdesk/internal/config"
	"eventdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	err  error
	path string
}

func (r *fakeRenderer) Render(doc *model.Document, path string) error {
	r.path = path
	if r.err != nil {
		return r.err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("%PDF-"+doc.Number), 0o600)
}

type sentMail struct {
	to, subject, body string
	attachmentExisted bool
}

type fakeNotifier struct {
	err  error
	sent []sentMail
}

func (n *fakeNotifier) Send(_ context.Context, to, subject, body, attachment string) error {
	_, statErr := os.Stat(attachment)
	n.sent = append(n.sent, sentMail{to, subject, body, statErr == nil})
	return n.err
}

func newDispatch(t *testing.T, f *fixture, r Renderer, n Notifier) DispatchService {
	cfg := &config.Config{CompanyName: "Event Company", PDFStoragePath: t.TempDir()}
	return NewDispatchService(f.quotations, f.receipts, r, n, cfg)
}

func TestSendQuotation(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	q, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	r, n := &fakeRenderer{}, &fakeNotifier{}
	res, err := newDispatch(t, f, r, n).SendQuotation(context.Background(), q.ID)
	require.NoError(t, err)

	assert.Equal(t, "acme@example.com", res.Recipient)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "Quotation QT-00001 from Event Company", n.sent[0].subject)
	assert.Contains(t, n.sent[0].body, "130.00")
	assert.Contains(t, n.sent[0].body, "Valid until")
	assert.True(t, n.sent[0].attachmentExisted)
	assert.True(t, strings.HasPrefix(filepath.Base(r.path), "quotation_1_"))

	_, statErr := os.Stat(r.path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "rendered file must be removed")
}

func TestSendReceipt_TwiceSendsTwoEmails(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	rc, err := f.receiptService().Create(context.Background(), receiptRequest(c.ID))
	require.NoError(t, err)

	n := &fakeNotifier{}
	svc := newDispatch(t, f, &fakeRenderer{}, n)
	_, err = svc.SendReceipt(context.Background(), rc.ID)
	require.NoError(t, err)
	_, err = svc.SendReceipt(context.Background(), rc.ID)
	require.NoError(t, err)

	require.Len(t, n.sent, 2)
	assert.Contains(t, n.sent[0].body, "Cash")
}

func TestSend_NotifierFailureIsDispatchError(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	q, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	r := &fakeRenderer{}
	_, err = newDispatch(t, f, r, &fakeNotifier{err: errors.New("relay down")}).SendQuotation(context.Background(), q.ID)
	assert.Equal(t, apierror.KindDispatch, apierror.KindOf(err))
	assert.Equal(t, 502, apierror.StatusOf(err))

	_, statErr := os.Stat(r.path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	after, err := f.quotationService().Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Status, after.Status)
	assert.Equal(t, q.Total, after.Total)
}

func TestSend_RendererFailure(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme@example.com")
	q, err := f.quotationService().Create(context.Background(), quotationRequest(c.ID))
	require.NoError(t, err)

	n := &fakeNotifier{}
	_, err = newDispatch(t, f, &fakeRenderer{err: errors.New("font missing")}, n).SendQuotation(context.Background(), q.ID)
	assert.Equal(t, apierror.KindDispatch, apierror.KindOf(err))
	assert.Empty(t, n.sent)
}

func TestSend_UnknownDocument(t *testing.T) {
	f := newFixture(t)
	_, err := newDispatch(t, f, &fakeRenderer{}, &fakeNotifier{}).SendReceipt(context.Background(), 99)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
