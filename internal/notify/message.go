package notify

import (
	"fmt"
	"html"
	"time"
)

const (
	alertSubject = "Garage is open"
	alertText    = "The garage door is open."

	timestampLayout = "2006-01-02 15:04:05"
)

func alertHTML(at time.Time) string {
	return fmt.Sprintf(
		"<html><head></head><body><p>The garage is open at %s</p></body></html>",
		html.EscapeString(at.Format(timestampLayout)),
	)
}
