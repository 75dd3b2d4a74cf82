package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kickback/internal/domain"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &SessionRepository{
		DB: db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO wallet_sessions (id, mainnet_address, devnet_address, connected_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, s.ID, nullString(s.Addresses.Mainnet), nullString(s.Addresses.Devnet), s.ConnectedAt, s.ExpiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("session %s: %w", s.ID, domain.ErrInvalidInput)
		}
		return err
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, mainnet_address, devnet_address, connected_at, expires_at
		FROM wallet_sessions
		WHERE id = $1
	`
	s := &domain.Session{}
	var mainnet, devnet sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &mainnet, &devnet, &s.ConnectedAt, &s.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.Addresses = domain.Addresses{Mainnet: mainnet.String, Devnet: devnet.String}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM wallet_sessions WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM wallet_sessions WHERE expires_at <= $1`
	res, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
