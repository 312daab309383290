package store

import "errors"

var (
	// ErrNotFound means no record exists for the email.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable means the store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// Record is one user's stored profile/credential document. At most one
// record exists per normalized email; a record may carry no password
// field at all (provider-authenticated-only account).
type Record struct {
	Email         string
	PasswordHash  string
	PasswordPlain string
	Profile       map[string]any
}

// RecordFromFields splits a raw document field map into the credential
// fields this core consumes and the opaque profile remainder.
func RecordFromFields(email string, fields map[string]any) *Record {
	r := &Record{Email: email, Profile: make(map[string]any, len(fields))}
	for k, v := range fields {
		switch k {
		case FieldEmail:
			if s, ok := v.(string); ok && s != "" {
				r.Email = s
			}
		case FieldPasswordHash:
			r.PasswordHash, _ = v.(string)
		case FieldPasswordPlain:
			r.PasswordPlain, _ = v.(string)
		default:
			r.Profile[k] = v
		}
	}
	return r
}

// Fields flattens the record back into a raw document field map.
func (r *Record) Fields() map[string]any {
	fields := make(map[string]any, len(r.Profile)+3)
	for k, v := range r.Profile {
		fields[k] = v
	}
	fields[FieldEmail] = r.Email
	if r.PasswordHash != "" {
		fields[FieldPasswordHash] = r.PasswordHash
	}
	if r.PasswordPlain != "" {
		fields[FieldPasswordPlain] = r.PasswordPlain
	}
	return fields
}
