// Package login implements credential resolution: deciding, for an
// email/password pair, whether the caller is authenticated, must be
// routed to sign-up, or was rejected. Two sources of truth are
// consulted: the identity provider (authoritative, tried first) and the
// account record store, which may hold legacy or alternate password
// encodings for accounts created before or outside the provider.
package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/aihealth/authcore/internal/cryptox"
	"github.com/aihealth/authcore/internal/emailx"
	"github.com/aihealth/authcore/internal/logging"
	"github.com/aihealth/authcore/internal/provider"
	"github.com/aihealth/authcore/internal/store"
)

// Status is the routing class of a login attempt.
type Status int

const (
	// StatusAuthenticated: credentials verified and a profile record exists.
	StatusAuthenticated Status = iota
	// StatusNeedsSignup: no account (or no profile record) for the email;
	// the caller should be routed to onboarding, not told "wrong password".
	StatusNeedsSignup
	// StatusRejected: an account exists but the password failed verification.
	StatusRejected
	// StatusTransientFailure: a source of truth could not be consulted;
	// the caller may retry the same action.
	StatusTransientFailure
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusNeedsSignup:
		return "needs signup"
	case StatusRejected:
		return "rejected"
	default:
		return "transient failure"
	}
}

// Outcome is the closed result set of Resolve. Email is the normalized
// (provider-confirmed when available) address; Reason is set for
// Rejected and TransientFailure.
type Outcome struct {
	Status Status
	Email  string
	Reason string
}

// Resolver orchestrates the provider, the record store, and the hash
// verifier into a single login decision.
type Resolver struct {
	provider provider.IdentityProvider
	store    store.RecordStore
	verifier *cryptox.Verifier
	logger   logging.Logger
}

func NewResolver(p provider.IdentityProvider, s store.RecordStore, v *cryptox.Verifier, logger logging.Logger) *Resolver {
	return &Resolver{provider: p, store: s, verifier: v, logger: logger}
}

// Resolve runs the provider-first, store-fallback login algorithm.
//
// The order is load-bearing: the provider is the authoritative,
// revocable credential source, so it must win when it accepts. Its
// rejection is never a final answer, because the account may only exist
// in the record store (legacy import, manual seeding). A store-side
// transient error during fallback is terminal for the call; a rejected
// login is only ever returned for an actual verification failure.
func (r *Resolver) Resolve(ctx context.Context, emailRaw, password string) Outcome {
	email := emailx.Normalize(emailRaw)

	subj, err := r.provider.Authenticate(ctx, email, password)
	if err == nil {
		confirmed := email
		if subj != nil && subj.Email != "" {
			confirmed = emailx.Normalize(subj.Email)
		}
		return r.resolveAccountState(ctx, confirmed, nil)
	}

	if errors.Is(err, provider.ErrInvalidCredential) {
		r.logger.Info(ctx, "provider rejected credentials, falling back to record store", "email", email)
	} else {
		r.logger.Warn(ctx, "provider unavailable, falling back to record store", "email", email, "error", err.Error())
	}

	rec, err := r.store.GetRecord(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{Status: StatusNeedsSignup, Email: email}
	}
	if err != nil {
		return Outcome{Status: StatusTransientFailure, Email: email, Reason: fmt.Sprintf("record store: %v", err)}
	}

	if !r.verifier.Verify(password, rec.PasswordHash, rec.PasswordPlain) {
		return Outcome{Status: StatusRejected, Email: email, Reason: "invalid credentials"}
	}
	return r.resolveAccountState(ctx, email, rec)
}

// resolveAccountState settles the downstream account state once the
// caller's credentials are verified: a profile record must exist before
// the outcome is Authenticated, otherwise the caller is routed to
// onboarding. When the verifying step already fetched the record it is
// reused, not re-read.
func (r *Resolver) resolveAccountState(ctx context.Context, email string, rec *store.Record) Outcome {
	if rec == nil {
		got, err := r.store.GetRecord(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{Status: StatusNeedsSignup, Email: email}
		}
		if err != nil {
			return Outcome{Status: StatusTransientFailure, Email: email, Reason: fmt.Sprintf("record store: %v", err)}
		}
		rec = got
	}
	return Outcome{Status: StatusAuthenticated, Email: email}
}
