// Package shelly reads the garage door position from a Shelly cloud switch.
//
// The reed switch is wired to the device's first input: input 1 means the
// contact is open, so the door is open.
package shelly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"garage_monitor/internal/config"
	"garage_monitor/internal/models"

	"github.com/bytedance/sonic"
)

var (
	ErrTransport = errors.New("device request failed")
	ErrStatus    = errors.New("device returned non-2xx status")
	ErrPayload   = errors.New("unexpected device payload")
)

const (
	statusPath      = "/device/status"
	maxBodyBytes    = 1 << 20 // 1 MB
	defaultTimeout  = 15 * time.Second
	formContentType = "application/x-www-form-urlencoded"
)

// Client polls the status endpoint of one device.
type Client struct {
	HTTP     *http.Client
	endpoint string
	deviceID string
	authKey  string
}

func NewClient(cfg config.DeviceSettings) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		endpoint: strings.TrimRight(cfg.EndpointURI, "/"),
		deviceID: cfg.DeviceID,
		authKey:  cfg.AuthKey,
	}
}

type statusResponse struct {
	IsOK   *bool       `json:"isok"`
	Errors any         `json:"errors"`
	Data   *statusData `json:"data"`
}

type statusData struct {
	Online       bool          `json:"online"`
	DeviceStatus *deviceStatus `json:"device_status"`
}

type deviceStatus struct {
	Inputs []switchInput `json:"inputs"`
}

type switchInput struct {
	Input any `json:"input"`
}

// Probe asks the device for its status. Every failure yields DoorUnknown
// together with an error wrapping ErrTransport, ErrStatus or ErrPayload.
func (c *Client) Probe(ctx context.Context) (models.DoorState, error) {
	body, err := c.fetchStatus(ctx)
	if err != nil {
		return models.DoorUnknown, err
	}
	return ParseStatus(body)
}

func (c *Client) fetchStatus(ctx context.Context) ([]byte, error) {
	form := url.Values{}
	form.Set("id", c.deviceID)
	form.Set("auth_key", c.authKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+statusPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return body, nil
}

// ParseStatus maps a /device/status body to a door state using
// data.device_status.inputs[0].input.
func ParseStatus(body []byte) (models.DoorState, error) {
	var resp statusResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return models.DoorUnknown, fmt.Errorf("%w: %v", ErrPayload, err)
	}
	if resp.IsOK != nil && !*resp.IsOK {
		return models.DoorUnknown, fmt.Errorf("%w: device reported isok=false: %v", ErrPayload, resp.Errors)
	}
	if resp.Data == nil || resp.Data.DeviceStatus == nil {
		return models.DoorUnknown, fmt.Errorf("%w: missing data.device_status", ErrPayload)
	}
	if len(resp.Data.DeviceStatus.Inputs) == 0 {
		return models.DoorUnknown, fmt.Errorf("%w: no inputs reported", ErrPayload)
	}
	return doorStateFromInput(resp.Data.DeviceStatus.Inputs[0].Input)
}

// doorStateFromInput: 1/true is open, 0/false is closed.
func doorStateFromInput(v any) (models.DoorState, error) {
	switch flag := v.(type) {
	case bool:
		if flag {
			return models.DoorOpen, nil
		}
		return models.DoorClosed, nil
	case float64:
		switch flag {
		case 1:
			return models.DoorOpen, nil
		case 0:
			return models.DoorClosed, nil
		}
	case int64:
		switch flag {
		case 1:
			return models.DoorOpen, nil
		case 0:
			return models.DoorClosed, nil
		}
	case nil:
		return models.DoorUnknown, fmt.Errorf("%w: inputs[0].input missing", ErrPayload)
	}
	return models.DoorUnknown, fmt.Errorf("%w: inputs[0].input has unexpected value %v", ErrPayload, v)
}
