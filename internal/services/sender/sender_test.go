package services

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sixnumber/internal/lib/smtp"
	"github.com/example/sixnumber/internal/models"
)

type fakeWriteCloser struct {
	bytes.Buffer
	closed bool
}

func (f *fakeWriteCloser) Close() error {
	f.closed = true
	return nil
}

type fakeClient struct {
	from   string
	rcpts  []string
	body   *fakeWriteCloser
	quit   bool
	closed bool
}

func (c *fakeClient) Mail(from string) error {
	c.from = from
	return nil
}
func (c *fakeClient) Rcpt(to string) error {
	c.rcpts = append(c.rcpts, to)
	return nil
}
func (c *fakeClient) Data() (io.WriteCloser, error) {
	c.body = &fakeWriteCloser{}
	return c.body, nil
}
func (c *fakeClient) Quit() error {
	c.quit = true
	return nil
}
func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

type fakeTransport struct {
	client *fakeClient
	user   string
}

func (t *fakeTransport) Connect() (smtp.Client, error) {
	return t.client, nil
}
func (t *fakeTransport) GetSMTPUser() string {
	return t.user
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendChargeNotification_Settled(t *testing.T) {
	transport := &fakeTransport{client: &fakeClient{}, user: "noreply@example.com"}
	svc := NewSenderService(transport, testLogger())

	body, err := json.Marshal(models.ChargeEvent{
		Email:   "user@example.com",
		UserUID: "uid-1",
		Msg:     "topup",
		Cash:    500,
		Settled: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendChargeNotification(body))
	assert.Equal(t, "noreply@example.com", transport.client.from)
	assert.Equal(t, []string{"user@example.com"}, transport.client.rcpts)
	assert.Contains(t, transport.client.body.String(), "Баланс пополнен")
	assert.Contains(t, transport.client.body.String(), "topup")
	assert.True(t, transport.client.body.closed)
	assert.True(t, transport.client.quit)
}

func TestSendChargeNotification_Discarded(t *testing.T) {
	transport := &fakeTransport{client: &fakeClient{}, user: "noreply@example.com"}
	svc := NewSenderService(transport, testLogger())

	body, err := json.Marshal(models.ChargeEvent{
		Email: "user@example.com",
		Msg:   "topup",
		Cash:  500,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendChargeNotification(body))
	assert.Contains(t, transport.client.body.String(), "отклонена")
}

func TestSendChargeNotification_BadPayload(t *testing.T) {
	transport := &fakeTransport{client: &fakeClient{}, user: "noreply@example.com"}
	svc := NewSenderService(transport, testLogger())

	err := svc.SendChargeNotification([]byte("not json"))
	assert.Error(t, err)
	assert.Nil(t, transport.client.body)
}

func TestSendPurgeNotification(t *testing.T) {
	transport := &fakeTransport{client: &fakeClient{}, user: "noreply@example.com"}
	svc := NewSenderService(transport, testLogger())

	body, err := json.Marshal(models.PurgeEvent{Email: "gone@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.SendPurgeNotification(body))
	assert.Equal(t, []string{"gone@example.com"}, transport.client.rcpts)
	assert.Contains(t, transport.client.body.String(), "удалены")
}
