package session

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveSession     = errors.New("no active session found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrActiveSessionExists = errors.New("session already active")
	ErrInvalidTickCount    = errors.New("tickCount must not be negative")
)

// ConflictError reports the open session that blocked a start.
type ConflictError struct {
	Existing Session
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s already active since %s", e.Existing.ID, e.Existing.StartTime.Format("2006-01-02T15:04:05Z07:00"))
}

func (e *ConflictError) Unwrap() error {
	return ErrActiveSessionExists
}
