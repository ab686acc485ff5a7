package smtp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type captureClient struct {
	sent     []*mail.Msg
	failures int
}

func (c *captureClient) DialAndSend(msgs ...*mail.Msg) error {
	if c.failures > 0 {
		c.failures--
		return errors.New("connection refused")
	}
	c.sent = append(c.sent, msgs...)
	return nil
}

func reviewData(approved bool) map[string]any {
	return map[string]any{
		"BaseURL":    "https://sellers.example.com",
		"Name":       "Ada Obi",
		"Level":      "STANDARD",
		"Approved":   approved,
		"Reason":     "blurry ID",
		"ReviewedAt": time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMailer_SendReviewNotification(t *testing.T) {
	client := &captureClient{}
	mailer := NewWithClient(client, "no-reply@example.com")

	err := mailer.Send("ada@example.com", reviewData(false), "verification-reviewed.tmpl")
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	subject := client.sent[0].GetGenHeader(mail.HeaderSubject)
	require.Len(t, subject, 1)
	assert.Equal(t, "Your Standard verification was not approved", subject[0])

	var body bytes.Buffer
	_, err = client.sent[0].WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "Reason: blurry ID")
}

func TestMailer_RetriesDelivery(t *testing.T) {
	client := &captureClient{failures: 2}
	mailer := NewWithClient(client, "no-reply@example.com")

	require.NoError(t, mailer.Send("ada@example.com", reviewData(true), "verification-reviewed.tmpl"))
	require.Len(t, client.sent, 1)
}

func TestMailer_GivesUpAfterThreeAttempts(t *testing.T) {
	client := &captureClient{failures: 3}
	mailer := NewWithClient(client, "no-reply@example.com")

	require.Error(t, mailer.Send("ada@example.com", reviewData(true), "verification-reviewed.tmpl"))
	require.Empty(t, client.sent)
}

func TestMailer_UnknownTemplate(t *testing.T) {
	mailer := NewWithClient(&captureClient{}, "no-reply@example.com")

	require.Error(t, mailer.Send("ada@example.com", nil, "missing.tmpl"))
}
