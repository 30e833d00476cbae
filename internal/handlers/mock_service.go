package handlers

import (
	"context"
	"net/http"
	"time"

	"garage_monitor/internal/models"
	"garage_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	state service.DoorStatus
	err   error
	calls int
}

func (m *mockMonitoring) GetState(ctx context.Context) (service.DoorStatus, error) {
	m.calls++
	return m.state, m.err
}

type mockHistory struct {
	resp      []models.Observation
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastState string

	attempts []models.NotificationAttempt
	attErr   error
	lastID   string
}

func (m *mockHistory) List(ctx context.Context, f service.HistoryFilter) ([]models.Observation, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastState = f.State
	return m.resp, m.err
}

func (m *mockHistory) Notifications(ctx context.Context, observationID string) ([]models.NotificationAttempt, error) {
	m.lastID = observationID
	return m.attempts, m.attErr
}

// ---- Shared Test Helpers ----

const testAPIKey = "s3cret"

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, testAPIKey, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func keyHeaders(key string) http.Header {
	h := http.Header{}
	if key != "" {
		h.Set(apiKeyHeader, key)
	}
	return h
}
