// Package lifecycle drives the active/deactivated/deleted account state
// machine. Every transition is confirmed by the backend first; local state
// is only touched after the remote call succeeds, so a failure never leaves
// the session half-updated.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"bookmarket/pkg/apiclient"
	"bookmarket/pkg/domain"
	"bookmarket/pkg/scoped"
	"bookmarket/pkg/session"
)

// ConfirmPhrase is the literal a user must type before account deletion is
// even sent to the backend.
const ConfirmPhrase = "DELETE"

var (
	// ErrTransitionInFlight rejects a transition while another one for the
	// same account has not resolved yet. Double-clicked destructive
	// buttons must produce exactly one remote call.
	ErrTransitionInFlight = errors.New("another account change is already in progress")

	// ErrConfirmationMismatch is returned locally, without any remote
	// call, when the deletion confirmation phrase is not an exact match.
	ErrConfirmationMismatch = errors.New("confirmation phrase does not match")

	// ErrAccountDeleted rejects any transition after the terminal state.
	ErrAccountDeleted = errors.New("account has been deleted")

	ErrNotSignedIn = errors.New("sign in to manage your account")
)

// Manager serializes account lifecycle transitions.
type Manager struct {
	sessions *session.Manager
	state    *scoped.Store
	api      *apiclient.Client

	mu       sync.Mutex
	inFlight bool
	deleted  bool
}

// New constructs a lifecycle manager bound to the current session.
func New(sessions *session.Manager, state *scoped.Store, api *apiclient.Client) *Manager {
	return &Manager{sessions: sessions, state: state, api: api}
}

// begin claims the in-flight slot or reports why it cannot.
func (m *Manager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleted {
		return ErrAccountDeleted
	}
	if m.inFlight {
		return ErrTransitionInFlight
	}
	if !m.sessions.RequireAuthenticated() {
		return ErrNotSignedIn
	}
	m.inFlight = true
	return nil
}

func (m *Manager) end() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

// Deactivate asks the backend to deactivate the account, then mirrors the
// result locally. Scoped entries are left intact for the grace period; the
// presentation layer hides them while deactivated.
func (m *Manager) Deactivate(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	user, err := m.api.Deactivate(ctx, m.sessions.Token())
	if err != nil {
		return err
	}
	status := domain.AccountStatus{State: domain.StateDeactivated, Since: time.Now().UTC()}
	if err := m.sessions.SetStatus(status); err != nil {
		return err
	}
	if err := m.sessions.UpdateIdentity(user); err != nil {
		return err
	}
	slog.Info("account deactivated", "user_id", user.ID)
	return nil
}

// Activate reverses a deactivation. Symmetric contract to Deactivate.
func (m *Manager) Activate(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	user, err := m.api.Activate(ctx, m.sessions.Token())
	if err != nil {
		return err
	}
	if err := m.sessions.SetStatus(domain.AccountStatus{State: domain.StateActive}); err != nil {
		return err
	}
	if err := m.sessions.UpdateIdentity(user); err != nil {
		return err
	}
	slog.Info("account reactivated", "user_id", user.ID)
	return nil
}

// Delete permanently removes the account. confirmPhrase must equal
// ConfirmPhrase exactly or the request is rejected before any remote call.
// On success the session record and every scoped entry for the owner are
// cleared, and the returned flag tells the caller to navigate away. This is
// the only irreversible transition.
func (m *Manager) Delete(ctx context.Context, confirmPhrase, password string) (navigateAway bool, err error) {
	if confirmPhrase != ConfirmPhrase {
		return false, ErrConfirmationMismatch
	}
	if err := m.begin(); err != nil {
		return false, err
	}
	defer m.end()

	identity, _ := m.sessions.CurrentIdentity()
	ownerKey := identity.OwnerKey()

	if err := m.api.DeleteAccount(ctx, m.sessions.Token(), password); err != nil {
		return false, err
	}

	// Remote deletion confirmed: no code path may read this owner's
	// entries back as a live session.
	if err := m.state.ClearAll(ownerKey); err != nil {
		slog.Warn("clearing deleted account state", "user_id", identity.ID, "error", err)
	}
	m.sessions.Logout()
	m.mu.Lock()
	m.deleted = true
	m.mu.Unlock()
	slog.Info("account deleted", "user_id", identity.ID)
	return true, nil
}

// Status exposes the locally mirrored account status.
func (m *Manager) Status() domain.AccountStatus {
	m.mu.Lock()
	deleted := m.deleted
	m.mu.Unlock()
	if deleted {
		return domain.AccountStatus{State: domain.StateDeleted}
	}
	return m.sessions.Status()
}
