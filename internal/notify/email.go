package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"garage_monitor/internal/config"

	"github.com/bytedance/sonic"
)

// EmailNotifier posts transactional email through the Brevo v3 API.
type EmailNotifier struct {
	HTTP        *http.Client
	url         string
	apiKey      string
	senderEmail string
	senderName  string
}

func NewEmail(cfg config.EmailSettings) *EmailNotifier {
	return &EmailNotifier{
		HTTP:        newHTTPClient(),
		url:         cfg.URL,
		apiKey:      cfg.APIKey,
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
	}
}

func (n *EmailNotifier) Name() string { return config.ProviderEmail }

type emailContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type emailRequest struct {
	Sender      emailContact   `json:"sender"`
	To          []emailContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type emailError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (n *EmailNotifier) Notify(ctx context.Context, recipient string, at time.Time) error {
	payload, err := sonic.Marshal(emailRequest{
		Sender:      emailContact{Name: n.senderName, Email: n.senderEmail},
		To:          []emailContact{{Name: recipient, Email: recipient}},
		Subject:     alertSubject,
		HTMLContent: alertHTML(at),
	})
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", n.apiKey)
	req.Header.Set("content-type", "application/json")

	return send(n.HTTP, req, func(body []byte) string {
		var e emailError
		if sonic.Unmarshal(body, &e) != nil || e.Message == "" {
			return ""
		}
		return e.Code + ": " + e.Message
	})
}
