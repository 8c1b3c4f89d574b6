package account

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRegistrar keeps accounts in process. Every signup starts a session;
// SignOut ends it.
type MemoryRegistrar struct {
	mu       sync.Mutex
	accounts map[string]Profile
	session  string
}

// NewMemoryRegistrar returns an empty MemoryRegistrar.
func NewMemoryRegistrar() *MemoryRegistrar {
	return &MemoryRegistrar{accounts: make(map[string]Profile)}
}

func (m *MemoryRegistrar) SignUp(ctx context.Context, email, password string, p Profile) (*Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(email))
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[key]; ok {
		return nil, ErrEmailTaken
	}
	m.accounts[key] = p
	m.session = uuid.NewString()
	return &Registration{UserID: m.session, Email: key, SessionStarted: true}, nil
}

func (m *MemoryRegistrar) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.session = ""
	m.mu.Unlock()
	return nil
}

// SignedIn reports whether a session is active.
func (m *MemoryRegistrar) SignedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != ""
}
