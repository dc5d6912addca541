package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookmarket/pkg/apiclient"
	"bookmarket/pkg/domain"
	"bookmarket/pkg/kv"
)

// Persisted session keys. These names are a compatibility contract with
// existing stored state and must not change.
const (
	KeyCurrentUser   = "currentUser"
	KeyToken         = "token"
	KeyAccountStatus = "accountStatus"
)

const minPasswordLen = 6

// Manager holds the current authenticated identity, or none. At most one
// identity is current at a time; everything per-user is namespaced by its
// owner key.
type Manager struct {
	kv  kv.Store
	api *apiclient.Client

	mu       sync.RWMutex
	identity *domain.Identity
	token    string
	status   domain.AccountStatus
}

// New constructs a manager and rehydrates any session persisted by a
// previous run. A stored token that is a JWT past its expiry is treated as
// no session at all.
func New(store kv.Store, api *apiclient.Client) (*Manager, error) {
	m := &Manager{
		kv:     store,
		api:    api,
		status: domain.AccountStatus{State: domain.StateActive},
	}
	if err := m.rehydrate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) rehydrate() error {
	raw, ok, err := m.kv.Get(KeyCurrentUser)
	if err != nil {
		return fmt.Errorf("read stored session: %w", err)
	}
	if !ok {
		return nil
	}
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		// Corrupt session record: drop it rather than fail startup.
		slog.Warn("discarding unreadable session record", "error", err)
		m.clearPersisted()
		return nil
	}
	token, _, err := m.kv.Get(KeyToken)
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	if tokenExpired(token) {
		slog.Info("stored token expired, starting anonymous")
		m.clearPersisted()
		return nil
	}
	m.identity = &identity
	m.token = token
	if raw, ok, _ := m.kv.Get(KeyAccountStatus); ok {
		var status domain.AccountStatus
		if err := json.Unmarshal([]byte(raw), &status); err == nil {
			m.status = status
		}
	}
	return nil
}

// tokenExpired reports whether token is a JWT with an exp claim in the
// past. Opaque (non-JWT) tokens never expire locally; the backend decides.
func tokenExpired(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Login authenticates against the backend. Input is validated before any
// network call. The identity and token are fully persisted before the
// session becomes visible in memory, so dependent reads never run under a
// half-written namespace.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateCredentials(email, password); err != nil {
		return domain.Identity{}, err
	}
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := m.persistSession(res); err != nil {
		return domain.Identity{}, err
	}
	m.mu.Lock()
	identity := res.User
	m.identity = &identity
	m.token = res.Token
	if res.AccountStatus != nil {
		m.status = *res.AccountStatus
	} else {
		m.status = domain.AccountStatus{State: domain.StateActive}
	}
	m.mu.Unlock()
	slog.Info("session started", "user_id", identity.ID)
	return identity, nil
}

// Register creates the account, then logs in with the new credentials so
// the caller ends up with an authenticated session.
func (m *Manager) Register(ctx context.Context, req apiclient.RegisterRequest) (domain.Identity, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return domain.Identity{}, err
	}
	if _, err := m.api.Register(ctx, req); err != nil {
		return domain.Identity{}, err
	}
	return m.Login(ctx, req.Email, req.Password)
}

func (m *Manager) persistSession(res apiclient.LoginResult) error {
	userJSON, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := m.kv.Set(KeyCurrentUser, string(userJSON)); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	if err := m.kv.Set(KeyToken, res.Token); err != nil {
		// Keep disk consistent: a token-less identity would rehydrate as
		// an unauthenticated ghost.
		_ = m.kv.Remove(KeyCurrentUser)
		return fmt.Errorf("persist token: %w", err)
	}
	if res.AccountStatus != nil {
		statusJSON, err := json.Marshal(res.AccountStatus)
		if err != nil {
			m.clearPersisted()
			return fmt.Errorf("encode account status: %w", err)
		}
		if err := m.kv.Set(KeyAccountStatus, string(statusJSON)); err != nil {
			// Same rollback as the token branch: a partial record must not
			// rehydrate as a live session on the next start.
			m.clearPersisted()
			return fmt.Errorf("persist account status: %w", err)
		}
	}
	return nil
}

// Logout clears the session record from memory and the store. Scoped
// entries are deliberately retained under the owner key so cart and
// wishlist survive a logout/login cycle.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.identity = nil
	m.token = ""
	m.status = domain.AccountStatus{State: domain.StateActive}
	m.mu.Unlock()
	m.clearPersisted()
	slog.Info("session ended")
}

func (m *Manager) clearPersisted() {
	_ = m.kv.Remove(KeyCurrentUser)
	_ = m.kv.Remove(KeyToken)
	_ = m.kv.Remove(KeyAccountStatus)
}

// CurrentIdentity returns the authenticated identity, if any.
func (m *Manager) CurrentIdentity() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return domain.Identity{}, false
	}
	return *m.identity, true
}

// RequireAuthenticated reports whether a session exists. A false return
// tells the caller to redirect to its login route.
func (m *Manager) RequireAuthenticated() bool {
	_, ok := m.CurrentIdentity()
	return ok
}

// OwnerKey returns the namespace key for the current identity, or "" when
// anonymous.
func (m *Manager) OwnerKey() string {
	identity, ok := m.CurrentIdentity()
	if !ok {
		return ""
	}
	return identity.OwnerKey()
}

// Token returns the bearer token for authenticated backend calls.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Status returns the locally mirrored account status.
func (m *Manager) Status() domain.AccountStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// SetStatus persists and mirrors an account status update. Used by the
// lifecycle manager after a confirmed remote transition.
func (m *Manager) SetStatus(status domain.AccountStatus) error {
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode account status: %w", err)
	}
	if err := m.kv.Set(KeyAccountStatus, string(statusJSON)); err != nil {
		return err
	}
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return nil
}

// UpdateIdentity re-persists a changed identity record (e.g. isActive
// flipped by a lifecycle transition). The owner key must not change.
func (m *Manager) UpdateIdentity(identity domain.Identity) error {
	userJSON, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := m.kv.Set(KeyCurrentUser, string(userJSON)); err != nil {
		return err
	}
	m.mu.Lock()
	m.identity = &identity
	m.mu.Unlock()
	return nil
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return ErrFieldsRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}
