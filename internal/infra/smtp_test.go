package infra

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eventdesk/internal/config"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMailer(send func(e *email.Email) error) *Mailer {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 2525, SMTPFrom: "noreply@example.com"})
	m.send = send
	return m
}

func TestMailer_SendBuildsMessage(t *testing.T) {
	attachment := filepath.Join(t.TempDir(), "quotation_1.pdf")
	require.NoError(t, os.WriteFile(attachment, []byte("%PDF-1.3"), 0o600))

	var sent *email.Email
	m := testMailer(func(e *email.Email) error { sent = e; return nil })

	err := m.Send(context.Background(), "client@example.com", "Quotation QT-00001 from Acme", "<p>Hi</p>", attachment)
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, "noreply@example.com", sent.From)
	assert.Equal(t, []string{"client@example.com"}, sent.To)
	assert.Equal(t, "Quotation QT-00001 from Acme", sent.Subject)
	assert.Equal(t, "<p>Hi</p>", string(sent.HTML))
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "quotation_1.pdf", sent.Attachments[0].Filename)
}

func TestMailer_MissingAttachment(t *testing.T) {
	m := testMailer(func(e *email.Email) error { return nil })

	err := m.Send(context.Background(), "a@example.com", "s", "b", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestMailer_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	m := testMailer(func(e *email.Email) error { calls++; return errors.New("connection refused") })

	for i := 0; i < DefaultBreakerConfig().FailureThreshold; i++ {
		assert.Error(t, m.Send(context.Background(), "a@example.com", "s", "b", ""))
	}
	err := m.Send(context.Background(), "a@example.com", "s", "b", "")
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, DefaultBreakerConfig().FailureThreshold, calls)
}

func TestMailer_CancelledContext(t *testing.T) {
	m := testMailer(func(e *email.Email) error { t.Fatal("must not send"); return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, "a@example.com", "s", "b", ""), context.Canceled)
}
