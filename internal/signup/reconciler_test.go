package signup

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aihealth/authcore/internal/logging"
	"github.com/aihealth/authcore/internal/provider"
	"github.com/aihealth/authcore/internal/store"
)

// ---- fakes shared by the package tests ----

type fakeProvider struct {
	MethodsRet []provider.Tag
	MethodsErr error

	CreateSubj *provider.Subject
	CreateErr  error

	LastListEmail      string
	LastCreateEmail    string
	LastCreatePassword string
	CreateCalls        int
}

func (f *fakeProvider) Authenticate(ctx context.Context, email, password string) (*provider.Subject, error) {
	panic("not used in signup tests")
}

func (f *fakeProvider) CreateAccount(ctx context.Context, email, password string) (*provider.Subject, error) {
	f.CreateCalls++
	f.LastCreateEmail = email
	f.LastCreatePassword = password
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	return f.CreateSubj, nil
}

func (f *fakeProvider) ListExistingMethods(ctx context.Context, email string) ([]provider.Tag, error) {
	f.LastListEmail = email
	return f.MethodsRet, f.MethodsErr
}

type fakeStore struct {
	GetRet *store.Record
	GetErr error

	PutErr error

	LastGetEmail  string
	LastPutEmail  string
	LastPutFields map[string]any
	LastPutMerge  bool
	PutCalls      int
}

func (f *fakeStore) GetRecord(ctx context.Context, email string) (*store.Record, error) {
	f.LastGetEmail = email
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.GetRet, nil
}

func (f *fakeStore) PutRecord(ctx context.Context, email string, fields map[string]any, merge bool) error {
	f.PutCalls++
	f.LastPutEmail = email
	f.LastPutFields = fields
	f.LastPutMerge = merge
	return f.PutErr
}

func (f *fakeStore) QueryByField(ctx context.Context, field string, value any, limit int) ([]*store.Record, error) {
	panic("not used in signup tests")
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ---- tests ----

func TestCheck_Available(t *testing.T) {
	p := &fakeProvider{}
	s := &fakeStore{GetErr: store.ErrNotFound}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), " New@Test.com ")

	require.Equal(t, CheckAvailable, res.Status)
	require.Equal(t, "new@test.com", res.Email)
	require.False(t, res.Degraded)
	require.Empty(t, res.Sources)
	// Both queries see the normalized email.
	require.Equal(t, "new@test.com", p.LastListEmail)
	require.Equal(t, "new@test.com", s.LastGetEmail)
}

func TestCheck_ExistsInProviderOnly(t *testing.T) {
	p := &fakeProvider{MethodsRet: []provider.Tag{provider.TagGoogle}}
	s := &fakeStore{GetErr: store.ErrNotFound}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), "user@test.com")

	require.Equal(t, CheckAlreadyExists, res.Status)
	require.Equal(t, []Source{SourceProvider}, res.Sources)
	require.Equal(t, []provider.Tag{provider.TagGoogle}, res.ProviderMethods)
}

func TestCheck_ExistsInStoreOnly(t *testing.T) {
	p := &fakeProvider{}
	s := &fakeStore{GetRet: &store.Record{Email: "user@test.com"}}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), "user@test.com")

	require.Equal(t, CheckAlreadyExists, res.Status)
	require.Equal(t, []Source{SourceStore}, res.Sources)
	require.Empty(t, res.ProviderMethods)
}

func TestCheck_ExistsInBoth(t *testing.T) {
	p := &fakeProvider{MethodsRet: []provider.Tag{provider.TagPassword}}
	s := &fakeStore{GetRet: &store.Record{Email: "user@test.com"}}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), "user@test.com")

	require.Equal(t, CheckAlreadyExists, res.Status)
	require.ElementsMatch(t, []Source{SourceProvider, SourceStore}, res.Sources)
}

func TestCheck_ProviderDownStoreEmpty(t *testing.T) {
	p := &fakeProvider{MethodsErr: provider.ErrNetwork}
	s := &fakeStore{GetErr: store.ErrNotFound}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), "user@test.com")

	// Store-only determination: usable, but flagged.
	require.Equal(t, CheckAvailable, res.Status)
	require.True(t, res.Degraded)
	require.NotEmpty(t, res.Reason)
}

func TestCheck_ProviderDownStoreHasRecord(t *testing.T) {
	p := &fakeProvider{MethodsErr: provider.ErrNetwork}
	s := &fakeStore{GetRet: &store.Record{Email: "user@test.com"}}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), "user@test.com")

	// Existence from the surviving source is definitive.
	require.Equal(t, CheckAlreadyExists, res.Status)
	require.Equal(t, []Source{SourceStore}, res.Sources)
}

func TestCheck_StoreDownProviderEmpty(t *testing.T) {
	p := &fakeProvider{}
	s := &fakeStore{GetErr: store.ErrUnavailable}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), "user@test.com")

	require.Equal(t, CheckAvailable, res.Status)
	require.True(t, res.Degraded)
}

func TestCheck_BothDown(t *testing.T) {
	p := &fakeProvider{MethodsErr: provider.ErrNetwork}
	s := &fakeStore{GetErr: store.ErrUnavailable}
	r := NewReconciler(p, s, testLogger())

	res := r.Check(context.Background(), "user@test.com")

	require.Equal(t, CheckFailed, res.Status)
	require.NotEmpty(t, res.Reason)
}

func TestCheck_Idempotent(t *testing.T) {
	p := &fakeProvider{}
	s := &fakeStore{GetErr: store.ErrNotFound}
	r := NewReconciler(p, s, testLogger())

	first := r.Check(context.Background(), "user@test.com")
	second := r.Check(context.Background(), "user@test.com")

	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.Email, second.Email)
}
