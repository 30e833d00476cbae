package config

import (
	"fmt"
	"sort"
)

const (
	minHour = 0
	maxHour = 24
)

var knownLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks cross-field rules. FromViper calls it before returning.
//
// The observation predicate is hour < Start || hour >= End. With Start >= End
// every hour satisfies it and with [0,24] none does, so both are rejected.
func (s Settings) Validate() error {
	if len(s.Recipients) == 0 {
		return fmt.Errorf("%w: %s must list at least one recipient", ErrInvalid, keyRecipients)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("%w: %s must be > 0", ErrInvalid, keyIntervalMinutes)
	}
	if err := s.Window.validate(); err != nil {
		return err
	}
	if s.DBPath == "" {
		return fmt.Errorf("%w: %s", ErrMissing, keyDBPath)
	}
	if !knownLogLevels[s.LogLevel] {
		return fmt.Errorf("%w: %s must be debug, info, warn or error (got %q)", ErrInvalid, keyLogLevel, s.LogLevel)
	}
	return nil
}

func (w Window) validate() error {
	for _, h := range []int{w.Start, w.End} {
		if h < minHour || h > maxHour {
			return fmt.Errorf("%w: %s hours must be within [%d,%d] (got %d)", ErrInvalid, keyAwakeHours, minHour, maxHour, h)
		}
	}
	if w.Start >= w.End {
		return fmt.Errorf("%w: %s start must be before end (got [%d,%d])", ErrInvalid, keyAwakeHours, w.Start, w.End)
	}
	if w.Start == minHour && w.End == maxHour {
		return fmt.Errorf("%w: %s [%d,%d] leaves no observation hours", ErrInvalid, keyAwakeHours, w.Start, w.End)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
