// Package postgres implements store.RecordStore on PostgreSQL. The opaque
// profile fields live in a JSONB column; the credential fields the core
// consumes are promoted to regular columns so legacy imports can be
// inspected and indexed.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/aihealth/authcore/internal/store"
)

// Store is a PostgreSQL-backed store.RecordStore.
type Store struct {
	db *sql.DB
}

// Open connects to the database identified by dsn and returns a Store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return New(db), nil
}

// New wraps an existing database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and shutdown.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) GetRecord(ctx context.Context, email string) (*store.Record, error) {
	query := `SELECT password_hash, password_plain, profile FROM account_records WHERE email = $1`

	var hash, plain sql.NullString
	var profileJSON []byte
	err := s.db.QueryRowContext(ctx, query, email).Scan(&hash, &plain, &profileJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	profile := map[string]any{}
	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	return &store.Record{
		Email:         email,
		PasswordHash:  hash.String,
		PasswordPlain: plain.String,
		Profile:       profile,
	}, nil
}

func (s *Store) PutRecord(ctx context.Context, email string, fields map[string]any, merge bool) error {
	if !merge {
		return s.replaceRecord(ctx, s.db, email, fields)
	}

	return withTx(ctx, s.db, func(ctx context.Context, tx dbtx) error {
		query := `SELECT password_hash, password_plain, profile FROM account_records WHERE email = $1 FOR UPDATE`

		var hash, plain sql.NullString
		var profileJSON []byte
		err := tx.QueryRowContext(ctx, query, email).Scan(&hash, &plain, &profileJSON)
		if errors.Is(err, sql.ErrNoRows) {
			return s.replaceRecord(ctx, tx, email, fields)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}

		existing := map[string]any{}
		if len(profileJSON) > 0 {
			if err := json.Unmarshal(profileJSON, &existing); err != nil {
				return fmt.Errorf("decode profile: %w", err)
			}
		}
		rec := store.Record{Email: email, PasswordHash: hash.String, PasswordPlain: plain.String, Profile: existing}

		merged := rec.Fields()
		for k, v := range fields {
			merged[k] = v
		}
		return s.replaceRecord(ctx, tx, email, merged)
	})
}

func (s *Store) replaceRecord(ctx context.Context, db dbtx, email string, fields map[string]any) error {
	rec := store.RecordFromFields(email, fields)
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	query := `
		INSERT INTO account_records (email, password_hash, password_plain, profile)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    password_plain = EXCLUDED.password_plain,
		    profile = EXCLUDED.profile,
		    updated_at = now()`

	if _, err := db.ExecContext(ctx, query, email, nullify(rec.PasswordHash), nullify(rec.PasswordPlain), profileJSON); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) QueryByField(ctx context.Context, field string, value any, limit int) ([]*store.Record, error) {
	var query string
	args := []any{fmt.Sprint(value), limit}
	switch field {
	case store.FieldEmail:
		query = `SELECT email, password_hash, password_plain, profile FROM account_records WHERE email = $1 LIMIT $2`
	case store.FieldPasswordHash:
		query = `SELECT email, password_hash, password_plain, profile FROM account_records WHERE password_hash = $1 LIMIT $2`
	default:
		// Profile fields are matched by their JSON text representation.
		query = `SELECT email, password_hash, password_plain, profile FROM account_records WHERE profile->>$1 = $2 LIMIT $3`
		args = []any{field, fmt.Sprint(value), limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*store.Record
	for rows.Next() {
		var email string
		var hash, plain sql.NullString
		var profileJSON []byte
		if err := rows.Scan(&email, &hash, &plain, &profileJSON); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		profile := map[string]any{}
		if len(profileJSON) > 0 {
			if err := json.Unmarshal(profileJSON, &profile); err != nil {
				return nil, fmt.Errorf("decode profile: %w", err)
			}
		}
		out = append(out, &store.Record{Email: email, PasswordHash: hash.String, PasswordPlain: plain.String, Profile: profile})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return out, nil
}

func nullify(s string) any {
	if s == "" {
		return nil
	}
	return s
}
