package signup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aihealth/authcore/internal/provider"
	"github.com/aihealth/authcore/internal/store"
)

func newService(p *fakeProvider, s *fakeStore) *Service {
	svc := NewService(p, s, NewReconciler(p, s, testLogger()), testLogger())
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSubmit_Success(t *testing.T) {
	p := &fakeProvider{
		MethodsErr: nil,
		CreateSubj: &provider.Subject{ID: "subj-1", Email: "user@test.com"},
	}
	s := &fakeStore{GetErr: store.ErrNotFound}
	svc := newService(p, s)

	subj, err := svc.Submit(context.Background(), " User@Test.com ", "abcd1234!", map[string]any{
		"height_cm": 180,
	})
	require.NoError(t, err)
	require.Equal(t, "subj-1", subj.ID)

	require.Equal(t, "user@test.com", p.LastCreateEmail)
	require.Equal(t, "abcd1234!", p.LastCreatePassword)

	// Record is written after provider creation, keyed by the normalized
	// email, with the baseline profile seeded and overrides applied.
	require.Equal(t, "user@test.com", s.LastPutEmail)
	require.False(t, s.LastPutMerge)
	require.Equal(t, "user@test.com", s.LastPutFields[store.FieldEmail])
	require.Equal(t, 180, s.LastPutFields["height_cm"])
	require.Equal(t, 0.0, s.LastPutFields["weight_kg"])
	require.Equal(t, []string{}, s.LastPutFields["allergies"])

	// Join date is recorded in KST: 2026-08-30 12:00 UTC is 21:00 KST.
	require.Equal(t, 2026, s.LastPutFields["join_yyyy"])
	require.Equal(t, 8, s.LastPutFields["join_mm"])
	require.Equal(t, 30, s.LastPutFields["join_dd"])
}

func TestSubmit_InvalidEmail(t *testing.T) {
	svc := newService(&fakeProvider{}, &fakeStore{})
	_, err := svc.Submit(context.Background(), "not-an-email", "abcd1234!", nil)
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSubmit_PolicyViolation(t *testing.T) {
	svc := newService(&fakeProvider{}, &fakeStore{})
	_, err := svc.Submit(context.Background(), "user@test.com", "abcd1234", nil)
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestSubmit_RecheckFindsExisting(t *testing.T) {
	p := &fakeProvider{MethodsRet: []provider.Tag{provider.TagPassword}}
	s := &fakeStore{GetErr: store.ErrNotFound}
	svc := newService(p, s)

	_, err := svc.Submit(context.Background(), "user@test.com", "abcd1234!", nil)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	// The provider account must never be created past a failed re-check.
	require.Zero(t, p.CreateCalls)
	require.Zero(t, s.PutCalls)
}

func TestSubmit_RecheckUnavailable(t *testing.T) {
	p := &fakeProvider{MethodsErr: provider.ErrNetwork}
	s := &fakeStore{GetErr: store.ErrUnavailable}
	svc := newService(p, s)

	_, err := svc.Submit(context.Background(), "user@test.com", "abcd1234!", nil)
	require.ErrorIs(t, err, ErrCheckUnavailable)
	require.Zero(t, p.CreateCalls)
}

func TestSubmit_LostCreationRace(t *testing.T) {
	p := &fakeProvider{CreateErr: provider.ErrEmailInUse}
	s := &fakeStore{GetErr: store.ErrNotFound}
	svc := newService(p, s)

	_, err := svc.Submit(context.Background(), "user@test.com", "abcd1234!", nil)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.Zero(t, s.PutCalls)
}

func TestSubmit_StoreWriteFailsAfterCreation(t *testing.T) {
	p := &fakeProvider{CreateSubj: &provider.Subject{ID: "subj-1", Email: "user@test.com"}}
	s := &fakeStore{GetErr: store.ErrNotFound, PutErr: store.ErrUnavailable}
	svc := newService(p, s)

	subj, err := svc.Submit(context.Background(), "user@test.com", "abcd1234!", nil)
	require.ErrorIs(t, err, ErrProfileWriteFailed)
	// The provider account survives; the subject is still reported so the
	// caller can route to login, where the fallback path recovers.
	require.NotNil(t, subj)
	require.Equal(t, 1, p.CreateCalls)
}
