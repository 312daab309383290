// Package cryptox classifies stored password credentials and checks
// candidate passwords against them. Account records may carry one of
// several historical encodings (bcrypt, hex-encoded SHA-256, or a raw
// plaintext value); classification is structural and deterministic so
// the login fallback path behaves identically for identical inputs.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Encoding identifies how a stored credential value is encoded.
type Encoding int

const (
	// EncodingNone means the hash field is empty or missing.
	EncodingNone Encoding = iota
	// EncodingBcrypt is a bcrypt hash ($2a$, $2b$ or $2y$ prefix).
	EncodingBcrypt
	// EncodingSha256Hex is a 64-character hex SHA-256 digest.
	EncodingSha256Hex
	// EncodingPlain is any other non-empty value, compared literally.
	EncodingPlain
)

func (e Encoding) String() string {
	switch e {
	case EncodingBcrypt:
		return "bcrypt"
	case EncodingSha256Hex:
		return "sha256hex"
	case EncodingPlain:
		return "plain"
	default:
		return "none"
	}
}

// Classify determines the encoding of a stored hash value.
// The bcrypt prefix is checked before the 64-hex rule so the contract
// stays unambiguous for future encodings.
func Classify(hash string) Encoding {
	h := strings.TrimSpace(hash)
	if h == "" {
		return EncodingNone
	}
	if strings.HasPrefix(h, "$2a$") || strings.HasPrefix(h, "$2b$") || strings.HasPrefix(h, "$2y$") {
		return EncodingBcrypt
	}
	if len(h) == 64 && isHex(h) {
		return EncodingSha256Hex
	}
	return EncodingPlain
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// BcryptChecker is the capability used to check bcrypt hashes. It is
// injected into Verifier so the algorithm's availability is a wiring
// decision rather than a runtime probe.
type BcryptChecker interface {
	// Check reports whether password matches hash. A non-nil error means
	// the check could not be performed at all (malformed hash, unsupported
	// cost); a plain mismatch is (false, nil).
	Check(password, hash string) (bool, error)
}

// LibBcryptChecker checks bcrypt hashes with golang.org/x/crypto/bcrypt.
type LibBcryptChecker struct{}

func (LibBcryptChecker) Check(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// Verifier checks candidate passwords against stored credentials.
// The zero value has no bcrypt capability and treats bcrypt-encoded
// credentials as non-matching.
type Verifier struct {
	bcrypt BcryptChecker
}

// NewVerifier constructs a Verifier. checker may be nil, in which case
// bcrypt-encoded credentials never verify (fail closed).
func NewVerifier(checker BcryptChecker) *Verifier {
	return &Verifier{bcrypt: checker}
}

// Verify checks password against a record's credential fields: the
// format-tagged hash field first, then the legacy plaintext field.
// A record with neither yields false; absence of a credential is never
// a free pass.
func (v *Verifier) Verify(password, storedHash, legacyPlain string) bool {
	h := strings.TrimSpace(storedHash)

	switch Classify(h) {
	case EncodingSha256Hex:
		sum := sha256.Sum256([]byte(password))
		return strings.EqualFold(hex.EncodeToString(sum[:]), h)
	case EncodingBcrypt:
		if v.bcrypt == nil {
			return false
		}
		ok, err := v.bcrypt.Check(password, h)
		if err != nil {
			return false
		}
		return ok
	case EncodingPlain:
		return subtle.ConstantTimeCompare([]byte(password), []byte(h)) == 1
	}

	if legacyPlain != "" {
		return subtle.ConstantTimeCompare([]byte(password), []byte(legacyPlain)) == 1
	}
	return false
}
