// Package store defines the account record store contract: one document
// per normalized email, holding optional legacy password encodings plus
// opaque profile fields. Concrete backends (postgres, mongo, memory)
// translate their driver errors into the sentinels below; callers match
// with errors.Is.
package store

import "context"

// Well-known document field names. Everything else in a record is an
// opaque profile field untouched by this core.
const (
	FieldEmail         = "email"
	FieldPasswordHash  = "password_hash"
	FieldPasswordPlain = "password"
)

// RecordStore is the document store holding account records keyed by
// normalized email.
type RecordStore interface {
	// GetRecord fetches the record for the normalized email.
	// Absence is ErrNotFound.
	GetRecord(ctx context.Context, email string) (*Record, error)

	// PutRecord writes the record's fields. With merge set, fields are
	// merged into an existing document; otherwise the document is
	// replaced (and created if absent in both cases).
	PutRecord(ctx context.Context, email string, fields map[string]any, merge bool) error

	// QueryByField returns up to limit records whose field equals value.
	QueryByField(ctx context.Context, field string, value any, limit int) ([]*Record, error)
}
