package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"garage_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListLogs    = "failed to load logs"
	errListNotifs  = "failed to load notifications"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List observations
// @Description  Poll cycles filtered by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and door state. A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from   query   string  false  "Start of range"  example(2025-08-01)
// @Param        to     query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        state  query   string  false  "Door state"  Enums(OPEN,CLOSED,UNKNOWN)
// @Success      200   {object}  map[string]interface{}  "count, observations"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     ApiKeyAuth
func (h *Handler) getLogs(c *gin.Context) {
	var (
		from  time.Time
		to    time.Time
		state = c.Query("state")
		err   error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	observations, err := h.services.History.List(c.Request.Context(), service.HistoryFilter{
		From:  from,
		To:    to,
		State: state,
	})
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListLogs, "logs_list_failed", err,
			"from", from, "to", to, "state", state)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(observations),
		"observations": observations,
	})
}

// @Summary      List notification attempts
// @Description  Delivery attempts made during one poll cycle.
// @Tags         logs
// @Produce      json
// @Param        id   path   string  true  "Observation ID"
// @Success      200  {object}  map[string]interface{}  "count, notifications"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs/{id}/notifications [get]
// @Security     ApiKeyAuth
func (h *Handler) getNotifications(c *gin.Context) {
	id := c.Param("id")
	attempts, err := h.services.History.Notifications(c.Request.Context(), id)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListNotifs, "notifications_list_failed", err,
			"observation_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(attempts),
		"notifications": attempts,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
