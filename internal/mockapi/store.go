package mockapi

import (
	"sync"

	"github.com/google/uuid"

	"bookmarket/pkg/domain"
)

// User is a stored account record.
type User struct {
	Identity     domain.Identity
	PasswordHash string
	Status       domain.AccountStatus
}

// Store keeps users and sessions in-process; the mock backend serves
// sample data and never persists anything.
type Store struct {
	mu    sync.RWMutex
	users map[string]User   // key: user ID
	email map[string]string // email -> user ID
	sess  map[string]string // token -> user ID
}

// NewStore initializes an empty store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]User),
		email: make(map[string]string),
		sess:  make(map[string]string),
	}
}

// SaveUser registers or replaces a user.
func (s *Store) SaveUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Identity.ID] = u
	s.email[u.Identity.Email] = u.Identity.ID
}

// HasUserEmail checks if email exists.
func (s *Store) HasUserEmail(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.email[email]
	return ok
}

// GetUserByEmail looks up a user by email.
func (s *Store) GetUserByEmail(email string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.email[email]; ok {
		u, exists := s.users[id]
		return u, exists
	}
	return User{}, false
}

// DeleteUser removes the user record and every session bound to it.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		delete(s.email, u.Identity.Email)
	}
	delete(s.users, id)
	for token, uid := range s.sess {
		if uid == id {
			delete(s.sess, token)
		}
	}
}

// NewSession creates a session token for a user.
func (s *Store) NewSession(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.sess[token] = userID
	return token
}

// GetUserByToken returns the user bound to a token.
func (s *Store) GetUserByToken(token string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.sess[token]
	if !ok {
		return User{}, false
	}
	user, exists := s.users[uid]
	return user, exists
}
