// Package notify delivers the open-door alert through one provider.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"garage_monitor/internal/config"
)

var (
	ErrTransport = errors.New("notification request failed")
	ErrStatus    = errors.New("notification provider returned non-2xx status")
)

// Notifier sends one alert to one recipient. Implementations make exactly one
// outbound call per invocation and never retry.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, recipient string, at time.Time) error
}

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10 // 4 KB
)

// New builds the notifier selected by cfg.Provider.
func New(cfg config.NotifierSettings) (Notifier, error) {
	switch cfg.Provider {
	case config.ProviderEmail:
		return NewEmail(cfg.Email), nil
	case config.ProviderSMS:
		return NewSMS(cfg.SMS), nil
	case config.ProviderDiscord:
		return NewDiscord(cfg.Discord)
	}
	return nil, fmt.Errorf("unsupported notification provider %q", cfg.Provider)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// send performs req and maps failures onto ErrTransport / ErrStatus.
// describe, when set, turns a non-2xx body into a readable reason.
func send(hc *http.Client, req *http.Request, describe func([]byte) string) error {
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	reason := strings.TrimSpace(string(body))
	if describe != nil {
		if d := describe(body); d != "" {
			reason = d
		}
	}
	if reason == "" {
		return fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, reason)
}
