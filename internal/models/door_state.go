package models

import (
	"fmt"
	"strings"
)

// DoorState is the door position inferred from one probe of the switch.
type DoorState int

const (
	// DoorUnknown means the probe failed; it never triggers an alert.
	DoorUnknown DoorState = iota
	DoorOpen
	DoorClosed
)

const (
	doorOpenName    = "OPEN"
	doorClosedName  = "CLOSED"
	doorUnknownName = "UNKNOWN"
)

func (s DoorState) String() string {
	switch s {
	case DoorOpen:
		return doorOpenName
	case DoorClosed:
		return doorClosedName
	default:
		return doorUnknownName
	}
}

// ParseDoorState accepts OPEN, CLOSED or UNKNOWN in any case.
func ParseDoorState(s string) (DoorState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case doorOpenName:
		return DoorOpen, nil
	case doorClosedName:
		return DoorClosed, nil
	case doorUnknownName:
		return DoorUnknown, nil
	}
	return DoorUnknown, fmt.Errorf("unknown door state %q", s)
}

func (s DoorState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DoorState) UnmarshalText(b []byte) error {
	v, err := ParseDoorState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
