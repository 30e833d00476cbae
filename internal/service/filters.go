package service

import "time"

// HistoryFilter narrows the observation journal.
type HistoryFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	State string    // "", "OPEN", "CLOSED", "UNKNOWN"
}
