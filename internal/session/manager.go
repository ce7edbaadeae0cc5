// Package session implements the workout session lifecycle: a user is Idle until a
// session starts, Active while it is open, and Idle again once it ends with metrics.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aryasuta/Elliptical-Backend/internal/events"
	"github.com/Aryasuta/Elliptical-Backend/internal/log"
	"github.com/Aryasuta/Elliptical-Backend/internal/observability"
	"github.com/Aryasuta/Elliptical-Backend/internal/user"
	"github.com/Aryasuta/Elliptical-Backend/internal/workout"

	"github.com/rs/zerolog"
)

type UserDirectory interface {
	FindByCardID(ctx context.Context, cardID string) (user.User, error)
	Exists(ctx context.Context, cardID string) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID string, startTime time.Time) (Session, error)
	FindActive(ctx context.Context, userID string) (Session, error)
	End(ctx context.Context, sessionID string, c Completion) error
	List(ctx context.Context, userID string) ([]Session, error)
}

// CardMarker is the part of the scan handoff the manager needs: clearing a device
// once its session is over.
type CardMarker interface {
	Clear(ctx context.Context, deviceID string) error
}

type Manager struct {
	users         UserDirectory
	store         SessionStore
	marker        CardMarker
	publisher     events.Publisher
	calibration   workout.Calibration
	defaultDevice string
	now           func() time.Time
	logger        zerolog.Logger
}

type Option func(*Manager)

func WithCalibration(c workout.Calibration) Option {
	return func(m *Manager) { m.calibration = c }
}

func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) {
		if p != nil {
			m.publisher = p
		}
	}
}

func WithDefaultDevice(deviceID string) Option {
	return func(m *Manager) {
		if deviceID != "" {
			m.defaultDevice = deviceID
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(users UserDirectory, store SessionStore, marker CardMarker, opts ...Option) *Manager {
	m := &Manager{
		users:         users,
		store:         store,
		marker:        marker,
		publisher:     events.Nop{},
		calibration:   workout.DefaultCalibration(),
		defaultDevice: "default",
		now:           time.Now,
		logger:        log.WithComponent("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartSession opens a session for the card owner. If one is already open the
// returned error is a *ConflictError carrying it.
func (m *Manager) StartSession(ctx context.Context, cardID string) (Session, error) {
	u, err := m.users.FindByCardID(ctx, cardID)
	if err != nil {
		return Session{}, err
	}

	existing, err := m.store.FindActive(ctx, u.ID)
	switch {
	case err == nil:
		observability.RecordSessionConflict()
		return Session{}, &ConflictError{Existing: existing}
	case !errors.Is(err, ErrNoActiveSession):
		return Session{}, err
	}

	sess, err := m.store.Create(ctx, u.ID, m.now().UTC())
	if errors.Is(err, ErrActiveSessionExists) {
		// a concurrent start for the same user won the insert
		observability.RecordSessionConflict()
		if existing, findErr := m.store.FindActive(ctx, u.ID); findErr == nil {
			return Session{}, &ConflictError{Existing: existing}
		}
		return Session{}, err
	}
	if err != nil {
		return Session{}, err
	}

	observability.RecordSessionStarted()
	m.logger.Info().
		Str(log.FieldSessionID, sess.ID).
		Str(log.FieldUserID, u.ID).
		Str(log.FieldCardID, cardID).
		Msg("session started")

	m.publish(ctx, events.SessionEvent{
		Type:       events.TypeSessionStarted,
		SessionID:  sess.ID,
		UserID:     u.ID,
		CardID:     cardID,
		StartTime:  sess.StartTime,
		OccurredAt: sess.StartTime,
	})
	return sess, nil
}

// EndSession closes the open session of the card owner, attaching the metrics
// derived from the tick count, and clears the device's pending card.
func (m *Manager) EndSession(ctx context.Context, req EndRequest) (Session, error) {
	if req.TickCount < 0 {
		return Session{}, ErrInvalidTickCount
	}

	u, err := m.users.FindByCardID(ctx, req.CardID)
	if err != nil {
		return Session{}, err
	}

	sess, err := m.store.FindActive(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}

	endTime := m.now().UTC()
	result := m.calibration.Compute(req.TickCount, u.Weight, endTime.Sub(sess.StartTime))
	completion := Completion{
		EndTime:   endTime,
		TickCount: req.TickCount,
		Distance:  result.Distance,
		Calories:  result.Calories,
		AvgSpeed:  result.AvgSpeedKmh,
	}

	if err := m.store.End(ctx, sess.ID, completion); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// ended by a concurrent request between lookup and update
			return Session{}, ErrNoActiveSession
		}
		return Session{}, err
	}
	sess.complete(completion)

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = m.defaultDevice
	}
	if err := m.marker.Clear(ctx, deviceID); err != nil {
		m.logger.Warn().Err(err).Str(log.FieldDeviceID, deviceID).Msg("clear pending card failed")
	}

	observability.RecordSessionEnded(result.Duration)
	m.logger.Info().
		Str(log.FieldSessionID, sess.ID).
		Str(log.FieldUserID, u.ID).
		Int64("tick_count", req.TickCount).
		Float64("distance_m", result.Distance).
		Dur("duration", result.Duration).
		Msg("session ended")

	m.publish(ctx, events.SessionEvent{
		Type:        events.TypeSessionEnded,
		SessionID:   sess.ID,
		UserID:      u.ID,
		CardID:      req.CardID,
		StartTime:   sess.StartTime,
		EndTime:     sess.EndTime,
		TickCount:   sess.TickCount,
		Distance:    sess.Distance,
		Calories:    sess.Calories,
		AvgSpeedKmh: sess.AvgSpeed,
		OccurredAt:  endTime,
	})
	return sess, nil
}

func (m *Manager) CheckUserExists(ctx context.Context, cardID string) (bool, error) {
	return m.users.Exists(ctx, cardID)
}

// History lists every session of the card owner, newest first.
func (m *Manager) History(ctx context.Context, cardID string) ([]Session, error) {
	u, err := m.users.FindByCardID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	sessions, err := m.store.List(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", u.ID, err)
	}
	return sessions, nil
}

func (m *Manager) publish(ctx context.Context, event events.SessionEvent) {
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn().Err(err).Str(log.FieldSessionID, event.SessionID).Str("event", event.Type).Msg("publish session event failed")
	}
}
