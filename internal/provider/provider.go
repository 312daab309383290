// Package provider defines the identity-provider contract the core needs:
// authenticating an email/password pair, creating an account, and listing
// the sign-in methods already registered for an email. Concrete clients
// (the identity-toolkit REST adapter, the in-memory provider) translate
// their transport errors into the closed taxonomy below; callers match
// with errors.Is and never see raw transport errors.
package provider

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredential means the provider rejected the email/password
	// pair. It is not terminal for a login: the caller may still fall back
	// to the account record store.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrEmailInUse means an account already exists for the email.
	ErrEmailInUse = errors.New("email already in use")

	// ErrWeakPassword means the provider rejected the password at signup.
	ErrWeakPassword = errors.New("weak password")

	// ErrNetwork means the provider could not be reached.
	ErrNetwork = errors.New("provider unreachable")

	// ErrUnknown covers provider failures with no more specific mapping.
	ErrUnknown = errors.New("provider error")
)

// Tag identifies a sign-in method registered with the provider.
type Tag string

const (
	TagPassword Tag = "password"
	TagGoogle   Tag = "google.com"
)

// Subject is the provider-side identity established by a successful
// authentication or account creation. Email is the provider-confirmed
// address and may differ in case from what the user typed.
type Subject struct {
	ID    string
	Email string
}

// IdentityProvider is the authoritative credential source.
type IdentityProvider interface {
	// Authenticate verifies the email/password pair and returns the
	// established subject. Failure to verify is ErrInvalidCredential.
	Authenticate(ctx context.Context, email, password string) (*Subject, error)

	// CreateAccount registers a new email/password account.
	CreateAccount(ctx context.Context, email, password string) (*Subject, error)

	// ListExistingMethods returns the sign-in methods registered for the
	// email. An empty slice means the provider has no account for it.
	ListExistingMethods(ctx context.Context, email string) ([]Tag, error)
}
