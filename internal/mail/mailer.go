package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/smtp"
	"strconv"
	"time"

	"inquiry_service/internal/config"
	"inquiry_service/internal/metrics"
)

// ErrNotConfigured means neither SMTP nor the transactional API is set up.
var ErrNotConfigured = errors.New("no mail transport configured")

type Message struct {
	To       string
	Subject  string
	HTML     string
	FromName string
	From     string
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// NewFromConfig picks the first configured transport: SMTP wins, then the
// HTTP API. Returns ErrNotConfigured when neither is set.
func NewFromConfig(cfg *config.Config) (Mailer, error) {
	if cfg.SMTPHost != "" {
		return &SMTPMailer{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			user:     cfg.SMTPUser,
			password: cfg.SMTPPassword,
			from:     cfg.MailFrom,
			fromName: cfg.MailFromName,
		}, nil
	}
	if cfg.MailAPIKey != "" {
		return &APIMailer{
			url:      cfg.MailAPIURL,
			apiKey:   cfg.MailAPIKey,
			from:     cfg.MailFrom,
			fromName: cfg.MailFromName,
			client:   &http.Client{Timeout: 15 * time.Second},
		}, nil
	}
	return nil, ErrNotConfigured
}

// SMTPMailer sends over plain SMTP with optional AUTH.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
}

func (m *SMTPMailer) Send(_ context.Context, msg *Message) error {
	if msg == nil || msg.To == "" {
		return fmt.Errorf("message recipient is empty")
	}

	from := msg.From
	if from == "" {
		from = m.from
	}
	fromName := msg.FromName
	if fromName == "" {
		fromName = m.fromName
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.HTML)

	addr := m.host + ":" + strconv.Itoa(m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, from, []string{msg.To}, buf.Bytes()); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	metrics.IncEmailSent("smtp")
	return nil
}

// APIMailer posts to a Resend-compatible transactional email API.
type APIMailer struct {
	url      string
	apiKey   string
	from     string
	fromName string
	client   *http.Client
}

type apiSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *APIMailer) Send(ctx context.Context, msg *Message) error {
	if msg == nil || msg.To == "" {
		return fmt.Errorf("message recipient is empty")
	}

	from := msg.From
	if from == "" {
		from = m.from
	}
	fromName := msg.FromName
	if fromName == "" {
		fromName = m.fromName
	}

	body, err := json.Marshal(apiSendRequest{
		From:    fmt.Sprintf("%s <%s>", fromName, from),
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("call mail api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail api returned %d: %s", resp.StatusCode, snippet)
	}

	metrics.IncEmailSent("api")
	return nil
}
