package handlers

import (
	"context"
	"net/http"
	"time"

	"garage_monitor/internal/logger"
	"garage_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait = 10 * time.Second
	streamPongWait  = 90 * time.Second
	streamPingEvery = 60 * time.Second
	streamReadLimit = 512

	defaultCheckEvery = 5 * time.Second
	minCheckEvery     = 50 * time.Millisecond
	maxCheckEvery     = time.Minute

	frameState = "state"
)

// streamFrame is one message on /ws. Data is the status of a newly recorded cycle.
type streamFrame struct {
	Type string             `json:"type"`
	Data service.DoorStatus `json:"data"`
}

// Any origin may subscribe.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Door state stream
// @Description  Sends the current status on connect, then one frame per newly recorded poll cycle. ?check_every (e.g. 2s) sets how often the journal is checked.
// @Tags         door
// @Param        check_every  query  string  false  "Journal check period, 50ms..1m"  example(5s)
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	every := checkEvery(c.Query("check_every"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}

	s := &doorStream{conn: conn, monitoring: h.services.Monitoring, log: h.log}
	s.serve(c.Request.Context(), every)
}

// checkEvery parses a duration and clamps it to [minCheckEvery, maxCheckEvery].
// Missing or malformed values mean defaultCheckEvery.
func checkEvery(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	switch {
	case raw == "" || err != nil || d <= 0:
		return defaultCheckEvery
	case d < minCheckEvery:
		return minCheckEvery
	case d > maxCheckEvery:
		return maxCheckEvery
	}
	return d
}

// doorStream serves one subscriber. It remembers which observation it last
// sent so an unchanged door status is never repeated.
type doorStream struct {
	conn       *websocket.Conn
	monitoring service.Monitoring
	log        *logger.Logger

	sent   bool
	lastID string
}

func (s *doorStream) serve(ctx context.Context, every time.Duration) {
	defer func() { _ = s.conn.Close() }()

	gone := s.drain()

	if _, err := s.pushIfNew(ctx); err != nil {
		s.warn("ws_initial_push_failed", err)
		return
	}

	check := time.NewTicker(every)
	ping := time.NewTicker(streamPingEvery)
	defer check.Stop()
	defer ping.Stop()

	for {
		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				s.warn("ws_ping_failed", err)
				return
			}
		case <-check.C:
			pushed, err := s.pushIfNew(ctx)
			if err != nil {
				s.warn("ws_push_failed", err)
				return
			}
			if pushed && s.log != nil {
				s.log.Debugw("ws_pushed", "observation_id", s.lastID)
			}
		}
	}
}

// pushIfNew writes the current status when it belongs to a cycle this
// subscriber has not seen yet.
func (s *doorStream) pushIfNew(ctx context.Context) (bool, error) {
	st, err := s.monitoring.GetState(ctx)
	if err != nil {
		return false, err
	}
	if s.sent && st.ID == s.lastID {
		return false, nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := s.conn.WriteJSON(streamFrame{Type: frameState, Data: st}); err != nil {
		return false, err
	}
	s.sent, s.lastID = true, st.ID
	return true, nil
}

// drain reads and discards client frames so pongs and close frames are
// processed. The returned channel closes when the client goes away.
func (s *doorStream) drain() <-chan struct{} {
	gone := make(chan struct{})
	s.conn.SetReadLimit(streamReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return gone
}

func (s *doorStream) warn(key string, err error) {
	if s.log != nil {
		s.log.Warnw(key, "err", err)
	}
}
