package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/logger"
)

var (
	// ErrNotFound is returned by a Backend when a key has no value
	ErrNotFound = errors.New("session key not found")
	// ErrIncomplete is returned by Set when the token or display name is empty
	ErrIncomplete = errors.New("session requires both a token and a display name")
)

// Backend persists string values under fixed keys
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

type Session struct {
	Token       string
	DisplayName string
}

// Authenticated reports whether the session carries a token
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Manager caches the session pair read from a Backend. It is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	backend Backend
	loaded  bool
	current Session
}

func NewManager(backend Backend) *Manager {
	return &Manager{backend: backend}
}

// Get returns the current session, reading the backend on first use.
// A half-written pair in storage reads as logged out.
func (m *Manager) Get() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		m.current = m.load()
		m.loaded = true
	}
	return m.current
}

func (m *Manager) Token() string       { return m.Get().Token }
func (m *Manager) Name() string        { return m.Get().DisplayName }
func (m *Manager) Authenticated() bool { return m.Get().Authenticated() }

func (m *Manager) load() Session {
	token, err := m.backend.Get(constants.SessionTokenKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Failed to read session token", "error", err)
		}
		return Session{}
	}
	name, err := m.backend.Get(constants.SessionNameKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Failed to read session name", "error", err)
		}
		return Session{}
	}
	if token == "" || name == "" {
		return Session{}
	}
	return Session{Token: token, DisplayName: name}
}

// Set stores both values. If the display name cannot be written the token write is undone.
func (m *Manager) Set(token, name string) error {
	if token == "" || name == "" {
		return ErrIncomplete
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Set(constants.SessionTokenKey, token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	if err := m.backend.Set(constants.SessionNameKey, name); err != nil {
		if delErr := m.backend.Delete(constants.SessionTokenKey); delErr != nil && !errors.Is(delErr, ErrNotFound) {
			logger.Error("Failed to undo partial session write", "error", delErr)
		}
		m.current = Session{}
		m.loaded = true
		return fmt.Errorf("failed to store session name: %w", err)
	}

	m.current = Session{Token: token, DisplayName: name}
	m.loaded = true
	logger.Debug("Session stored", "user", name)
	return nil
}

// Clear removes both values. Clearing an already empty session is a no-op, so several
// callers may clear on the same teardown.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = Session{}
	m.loaded = true

	var errs []error
	for _, key := range []string{constants.SessionTokenKey, constants.SessionNameKey} {
		if err := m.backend.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// ExpiresAt reads the exp claim of a JWT access token without verifying it.
// It is informational only; the server's 401 remains the authority on expiry.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token := m.Token()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
