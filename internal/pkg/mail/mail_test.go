package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTP_Send(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@mailotp.test"})
	require.NoError(t, err)

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotRaw  string
	)
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotRaw = addr, from, to, string(msg)
		return nil
	}

	err = s.Send(context.Background(), Message{
		To:       []string{"a@b.com"},
		Bcc:      []string{"audit@b.com"},
		Subject:  "Your verification code",
		TextBody: "Your OTP code is: 000042.",
		HTMLBody: "<b>000042</b>",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:1025", gotAddr)
	assert.Equal(t, "noreply@mailotp.test", gotFrom)
	assert.Equal(t, []string{"a@b.com", "audit@b.com"}, gotTo)
	assert.Contains(t, gotRaw, "Subject: Your verification code\r\n")
	assert.Contains(t, gotRaw, "multipart/alternative; boundary=mailotp-boundary-")
	assert.Contains(t, gotRaw, "Content-Type: text/plain; charset=UTF-8\r\n\r\nYour OTP code is: 000042.")
	assert.Contains(t, gotRaw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<b>000042</b>")
	assert.NotContains(t, gotRaw, "audit@b.com", "bcc must not leak into headers")
}

func TestSMTP_SendErrors(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 25})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@b.com"}}), ErrNoSender)

	boom := errors.New("421 service not available")
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return boom }
	assert.ErrorIs(t, s.Send(context.Background(), Message{From: "x@y.z", To: []string{"a@b.com"}}), boom)
}

func TestBuildBody(t *testing.T) {
	body, ct := buildBody(Message{TextBody: "plain"})
	assert.Equal(t, "plain", body)
	assert.Equal(t, "text/plain; charset=UTF-8", ct)

	body, ct = buildBody(Message{HTMLBody: "<p>x</p>"})
	assert.Equal(t, "<p>x</p>", body)
	assert.Equal(t, "text/html; charset=UTF-8", ct)
}

func TestSendGrid_Send(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sg, err := NewSendGrid(SendGridConfig{APIKey: "sg-key", From: "noreply@mailotp.test", FromName: "MailOTP", Host: srv.URL})
	require.NoError(t, err)

	err = sg.Send(context.Background(), Message{
		To:       []string{"a@b.com"},
		Subject:  "Your verification code",
		TextBody: "text",
		HTMLBody: "<p>html</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Your verification code", payload["subject"])
	content := payload["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "text/plain", content[0].(map[string]any)["type"])
	personalizations := payload["personalizations"].([]any)
	to := personalizations[0].(map[string]any)["to"].([]any)
	assert.Equal(t, "a@b.com", to[0].(map[string]any)["email"])
}

func TestSendGrid_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad from"}]}`))
	}))
	defer srv.Close()

	sg, err := NewSendGrid(SendGridConfig{APIKey: "sg-key", From: "noreply@mailotp.test", Host: srv.URL})
	require.NoError(t, err)

	err = sg.Send(context.Background(), Message{To: []string{"a@b.com"}, Subject: "s", TextBody: "t"})
	assert.Error(t, err)
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver("log", FactoryOptions{From: "noreply@mailotp.test"})
	require.NoError(t, err)
	assert.NoError(t, m.Send(context.Background(), Message{To: []string{"a@b.com"}, Subject: "s"}))
	assert.NoError(t, m.Close())

	_, err = NewFromDriver("sendgrid", FactoryOptions{})
	assert.ErrorIs(t, err, ErrSendGridAPIKeyRequired)

	_, err = NewFromDriver("pigeon", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
