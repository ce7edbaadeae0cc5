package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aryasuta/Elliptical-Backend/internal/db"
	"github.com/Aryasuta/Elliptical-Backend/internal/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolation = "23505"

const sessionColumns = `id, user_id, start_time, end_time, status, tick_count, distance, calories, avg_speed`

// Store persists sessions in Postgres. The partial unique index
// sessions_one_active_per_user backs the one-open-session rule.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

// Create opens a session unless the user already has one open.
func (s *Store) Create(ctx context.Context, userID string, startTime time.Time) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartTime: startTime,
		Status:    StatusActive,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO sessions (id, user_id, start_time, status)
		SELECT $1::uuid, $2::uuid, $3::timestamptz, $4::text
		WHERE NOT EXISTS (
			SELECT 1 FROM sessions WHERE user_id=$2::uuid AND end_time IS NULL
		)
		RETURNING start_time
	`, sess.ID, userID, startTime, string(StatusActive))
	if err := row.Scan(&sess.StartTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return Session{}, ErrActiveSessionExists
		}
		observability.RecordStoreError("create_session")
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// FindActive returns the newest open session of the user.
func (s *Store) FindActive(ctx context.Context, userID string) (Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions WHERE user_id=$1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`, userID)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNoActiveSession
		}
		observability.RecordStoreError("find_active_session")
		return Session{}, fmt.Errorf("find active session: %w", err)
	}
	return sess, nil
}

// End writes the terminal fields. Only an open session can be ended.
func (s *Store) End(ctx context.Context, sessionID string, c Completion) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE sessions
		SET end_time=$2, status=$3, tick_count=$4, distance=$5, calories=$6, avg_speed=$7
		WHERE id=$1 AND end_time IS NULL
	`, sessionID, c.EndTime, string(StatusDone), c.TickCount, c.Distance, c.Calories, c.AvgSpeed)
	if err != nil {
		observability.RecordStoreError("end_session")
		return fmt.Errorf("end session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// List returns every session of the user, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions WHERE user_id=$1
		ORDER BY start_time DESC
	`, userID)
	if err != nil {
		observability.RecordStoreError("list_sessions")
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		observability.RecordStoreError("list_sessions")
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var (
		sess     Session
		status   string
		endTime  pgtype.Timestamptz
		ticks    pgtype.Int8
		distance pgtype.Float8
		calories pgtype.Float8
		speed    pgtype.Float8
	)
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.StartTime, &endTime, &status, &ticks, &distance, &calories, &speed); err != nil {
		return Session{}, err
	}
	sess.Status = Status(status)
	if endTime.Valid {
		t := endTime.Time
		sess.EndTime = &t
	}
	if ticks.Valid {
		v := ticks.Int64
		sess.TickCount = &v
	}
	sess.Distance = floatPtr(distance)
	sess.Calories = floatPtr(calories)
	sess.AvgSpeed = floatPtr(speed)
	return sess, nil
}

func floatPtr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
