// Package user is the directory of registered kiosk users, keyed by card id.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Aryasuta/Elliptical-Backend/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrCardTaken     = errors.New("card already registered")
	ErrInvalidUser   = errors.New("cardId and name are required")
	ErrInvalidWeight = errors.New("weight must not be negative")
)

const uniqueViolation = "23505"

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// FindByCardID resolves a scanned card to its owner.
func (s *Service) FindByCardID(ctx context.Context, cardID string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, card_id, name, COALESCE(weight, 0), COALESCE(gender, ''), created_at
		FROM users WHERE card_id=$1
	`, cardID)
	var u User
	if err := row.Scan(&u.ID, &u.CardID, &u.Name, &u.Weight, &u.Gender, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user by card: %w", err)
	}
	return u, nil
}

func (s *Service) Exists(ctx context.Context, cardID string) (bool, error) {
	_, err := s.FindByCardID(ctx, cardID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) Create(ctx context.Context, req RegisterRequest) (User, error) {
	u := User{
		ID:     uuid.NewString(),
		CardID: strings.TrimSpace(req.CardID),
		Name:   strings.TrimSpace(req.Name),
		Gender: req.Gender,
	}
	if u.CardID == "" || u.Name == "" {
		return User{}, ErrInvalidUser
	}
	if req.Weight != nil {
		if *req.Weight < 0 {
			return User{}, ErrInvalidWeight
		}
		u.Weight = *req.Weight
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, card_id, name, weight, gender)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, u.ID, u.CardID, u.Name, nullableWeight(req.Weight), nullIfEmpty(u.Gender))
	if err := row.Scan(&u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrCardTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func nullableWeight(w *float64) *float64 {
	if w == nil || *w == 0 {
		return nil
	}
	return w
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
