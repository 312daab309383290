package signup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aihealth/authcore/internal/emailx"
	"github.com/aihealth/authcore/internal/logging"
	"github.com/aihealth/authcore/internal/provider"
	"github.com/aihealth/authcore/internal/store"
)

var (
	// ErrAlreadyRegistered means the duplicate re-check (or the provider
	// itself) reported an existing account at submit time.
	ErrAlreadyRegistered = errors.New("email already registered")

	// ErrCheckUnavailable means the duplicate re-check could not consult
	// either source; the caller may resubmit.
	ErrCheckUnavailable = errors.New("duplicate check unavailable")

	// ErrInvalidEmail means the submitted email fails the syntax check.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrWeakPassword means the submitted password violates the policy.
	ErrWeakPassword = errors.New("password violates policy")

	// ErrProfileWriteFailed means the provider account was created but
	// the profile record write failed. The provider account is not
	// rolled back; the next login recovers via the resolver's fallback.
	ErrProfileWriteFailed = errors.New("profile record write failed")
)

// Joining dates are recorded in the service's home timezone.
var joinLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

// Service performs the actual signup submission: one final duplicate
// re-check, provider account creation, then the profile record write
// that determines user-visible success.
type Service struct {
	provider   provider.IdentityProvider
	store      store.RecordStore
	reconciler *Reconciler
	logger     logging.Logger

	now func() time.Time // test seam
}

func NewService(p provider.IdentityProvider, s store.RecordStore, r *Reconciler, logger logging.Logger) *Service {
	return &Service{provider: p, store: s, reconciler: r, logger: logger, now: time.Now}
}

// Submit creates the account. The gate's cached state is never trusted
// for the actual write: the duplicate check runs once more here, and
// the provider's own uniqueness conflict catches whatever races past
// it. Creation order is fixed: provider first, then the record store;
// a store failure after provider success is reported but not rolled
// back (the resolver's fallback path recovers on next login).
func (s *Service) Submit(ctx context.Context, emailRaw, password string, profile map[string]any) (*provider.Subject, error) {
	email := emailx.Normalize(emailRaw)
	if !emailx.IsValid(email) {
		return nil, ErrInvalidEmail
	}
	if msg := PasswordPolicyError(password); msg != "" {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, msg)
	}

	res := s.reconciler.Check(ctx, email)
	switch res.Status {
	case CheckAlreadyExists:
		return nil, fmt.Errorf("%w (sources: %v)", ErrAlreadyRegistered, res.Sources)
	case CheckFailed:
		return nil, fmt.Errorf("%w: %s", ErrCheckUnavailable, res.Reason)
	}

	subj, err := s.provider.CreateAccount(ctx, email, password)
	if err != nil {
		if errors.Is(err, provider.ErrEmailInUse) {
			// Lost the race against a concurrent creation.
			return nil, fmt.Errorf("%w: %v", ErrAlreadyRegistered, err)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	fields := s.baselineProfile(email)
	for k, v := range profile {
		fields[k] = v
	}
	if err := s.store.PutRecord(ctx, email, fields, false); err != nil {
		s.logger.Error(ctx, "profile record write failed after provider account creation",
			"email", email, "subject", subj.ID, "error", err.Error())
		return subj, fmt.Errorf("%w: %v", ErrProfileWriteFailed, err)
	}

	s.logger.Info(ctx, "account created", "email", email, "subject", subj.ID)
	return subj, nil
}

// baselineProfile seeds the fields every new record starts with: the
// join date plus zeroed body metrics the profile screens fill in later.
func (s *Service) baselineProfile(email string) map[string]any {
	now := s.now().In(joinLocation)
	return map[string]any{
		store.FieldEmail: email,
		"join_yyyy":      now.Year(),
		"join_mm":        int(now.Month()),
		"join_dd":        now.Day(),
		"height_cm":      0,
		"weight_kg":      0.0,
		"age_years":      0,
		"age_man_years":  0,
		"birth_yyyy":     0,
		"birth_mm":       0,
		"birth_dd":       0,
		"allergies":      []string{},
		"diseases":       []string{},
	}
}
