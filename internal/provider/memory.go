package provider

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryAccount struct {
	subjectID string
	password  string
	methods   []Tag
}

// MemoryProvider is an in-process IdentityProvider used by tests and by
// the CLI's offline mode. Accounts live only for the process lifetime.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{accounts: make(map[string]*memoryAccount)}
}

func (m *MemoryProvider) key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *MemoryProvider) Authenticate(ctx context.Context, email, password string) (*Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[m.key(email)]
	if !ok || acc.password != password {
		return nil, ErrInvalidCredential
	}
	return &Subject{ID: acc.subjectID, Email: m.key(email)}, nil
}

func (m *MemoryProvider) CreateAccount(ctx context.Context, email, password string) (*Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(email)
	if _, ok := m.accounts[k]; ok {
		return nil, ErrEmailInUse
	}
	acc := &memoryAccount{subjectID: uuid.NewString(), password: password, methods: []Tag{TagPassword}}
	m.accounts[k] = acc
	return &Subject{ID: acc.subjectID, Email: k}, nil
}

func (m *MemoryProvider) ListExistingMethods(ctx context.Context, email string) ([]Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[m.key(email)]
	if !ok {
		return nil, nil
	}
	return append([]Tag(nil), acc.methods...), nil
}

// Seed registers an account directly, bypassing password checks. It is a
// test/dev helper for preparing provider state.
func (m *MemoryProvider) Seed(email, password string, methods ...Tag) *Subject {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(methods) == 0 {
		methods = []Tag{TagPassword}
	}
	k := m.key(email)
	acc := &memoryAccount{subjectID: uuid.NewString(), password: password, methods: methods}
	m.accounts[k] = acc
	return &Subject{ID: acc.subjectID, Email: k}
}
