// Package signup implements the signup-time half of account handling:
// duplicate detection across two independent sources of truth, the
// client-side gating state machine, and the submission flow that
// creates the provider account and seeds the profile record.
package signup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aihealth/authcore/internal/emailx"
	"github.com/aihealth/authcore/internal/logging"
	"github.com/aihealth/authcore/internal/provider"
	"github.com/aihealth/authcore/internal/store"
)

// CheckStatus classifies a duplicate-check outcome.
type CheckStatus int

const (
	// CheckAvailable: no account found for the email.
	CheckAvailable CheckStatus = iota
	// CheckAlreadyExists: at least one source reports an account.
	CheckAlreadyExists
	// CheckFailed: neither source could be consulted.
	CheckFailed
)

func (s CheckStatus) String() string {
	switch s {
	case CheckAvailable:
		return "available"
	case CheckAlreadyExists:
		return "already exists"
	default:
		return "check failed"
	}
}

// Source names which source of truth reported an existing account.
type Source string

const (
	SourceProvider Source = "provider"
	SourceStore    Source = "store"
)

// DuplicateCheckResult is the outcome of one explicit existence check.
// It is valid only for the email it was produced for: the moment the
// live email differs from Email, the result must be discarded.
type DuplicateCheckResult struct {
	Status  CheckStatus
	Email   string
	Sources []Source
	// ProviderMethods carries the provider's registered sign-in methods
	// when non-empty, so the caller can hint "already registered via X".
	ProviderMethods []provider.Tag
	// Degraded marks an Available verdict that rests on a single source
	// because the other query failed. The caller should warn rather
	// than silently proceed as if both sources were checked.
	Degraded bool
	Reason   string
}

// Reconciler answers "does an account already exist for this email" by
// merging the provider's sign-in methods with the record store's
// document existence. Either signal alone is enough for "exists".
type Reconciler struct {
	provider provider.IdentityProvider
	store    store.RecordStore
	logger   logging.Logger
}

func NewReconciler(p provider.IdentityProvider, s store.RecordStore, logger logging.Logger) *Reconciler {
	return &Reconciler{provider: p, store: s, logger: logger}
}

// Check queries both sources concurrently (neither depends on the
// other) and merges the signals. Repeated calls for an unchanged email
// with no intervening account creation return the same class of result;
// racing creations by another actor are detected later, at actual
// creation time, by the provider's uniqueness conflict.
func (r *Reconciler) Check(ctx context.Context, emailRaw string) DuplicateCheckResult {
	email := emailx.Normalize(emailRaw)

	var (
		methods []provider.Tag
		provErr error

		rec      *store.Record
		storeErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		methods, provErr = r.provider.ListExistingMethods(ctx, email)
	}()
	go func() {
		defer wg.Done()
		rec, storeErr = r.store.GetRecord(ctx, email)
	}()
	wg.Wait()

	storeHas := storeErr == nil && rec != nil
	storeEmpty := errors.Is(storeErr, store.ErrNotFound)
	storeDown := storeErr != nil && !storeEmpty
	provHas := provErr == nil && len(methods) > 0

	if provErr != nil && storeDown {
		return DuplicateCheckResult{
			Status: CheckFailed,
			Email:  email,
			Reason: fmt.Sprintf("provider: %v; store: %v", provErr, storeErr),
		}
	}

	var sources []Source
	if provHas {
		sources = append(sources, SourceProvider)
	}
	if storeHas {
		sources = append(sources, SourceStore)
	}
	if len(sources) > 0 {
		res := DuplicateCheckResult{
			Status:  CheckAlreadyExists,
			Email:   email,
			Sources: sources,
		}
		if provHas {
			res.ProviderMethods = methods
		}
		return res
	}

	// No source reported an account. If one of the queries failed, the
	// verdict rests on a single source and is reduced-confidence.
	res := DuplicateCheckResult{Status: CheckAvailable, Email: email}
	if provErr != nil {
		r.logger.Warn(ctx, "duplicate check degraded to store-only determination", "email", email, "error", provErr.Error())
		res.Degraded = true
		res.Reason = fmt.Sprintf("provider: %v", provErr)
	} else if storeDown {
		r.logger.Warn(ctx, "duplicate check degraded to provider-only determination", "email", email, "error", storeErr.Error())
		res.Degraded = true
		res.Reason = fmt.Sprintf("store: %v", storeErr)
	}
	return res
}
