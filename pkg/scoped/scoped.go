// Package scoped persists per-user state under (category, owner key)
// namespaces, replacing the ad hoc string-concatenated storage keys the
// account pages used to build by hand.
package scoped

import (
	"encoding/json"
	"errors"
	"fmt"

	"bookmarket/pkg/kv"
)

// Category identifies one per-user state bucket. The string value is part
// of the persisted key contract (<category>_<ownerKey>) and must not change.
type Category string

const (
	Cart           Category = "cart"
	Wishlist       Category = "wishlist"
	Orders         Category = "orders"
	Addresses      Category = "addresses"
	PaymentMethods Category = "paymentMethods"
	UserData       Category = "userData"
)

// Categories lists every per-user bucket, in the order destructive
// cascades clear them.
var Categories = []Category{Cart, Wishlist, Orders, Addresses, PaymentMethods, UserData}

// AnonymousOwner is the process-wide namespace used for pre-login browsing.
const AnonymousOwner = "anonymous"

var (
	// ErrNoSession is returned when a category that requires a logged-in
	// owner is accessed anonymously.
	ErrNoSession = errors.New("no active session")

	ErrUnknownCategory = errors.New("unknown state category")
)

// anonymous-browsing buckets: cart and wishlist work before login under the
// shared anonymous owner key. Everything else requires a session.
var anonymousAllowed = map[Category]bool{
	Cart:     true,
	Wishlist: true,
}

// OwnerSource resolves the current namespace owner. Satisfied by
// session.Manager; returns "" when anonymous.
type OwnerSource interface {
	OwnerKey() string
}

// Store reads and writes values namespaced by the current identity. The
// owner key is resolved from the source on every call, never cached, so an
// identity switch is picked up immediately and one owner's entries are
// never served to another.
type Store struct {
	kv    kv.Store
	owner OwnerSource
}

// New constructs a scoped store over the given persistent backend.
func New(backend kv.Store, owner OwnerSource) *Store {
	return &Store{kv: backend, owner: owner}
}

func (s *Store) resolveOwner(cat Category) (string, error) {
	if !validCategory(cat) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	key := s.owner.OwnerKey()
	if key != "" {
		return key, nil
	}
	if anonymousAllowed[cat] {
		return AnonymousOwner, nil
	}
	return "", ErrNoSession
}

func validCategory(cat Category) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// StorageKey returns the persisted key for a category and owner.
func StorageKey(cat Category, ownerKey string) string {
	return string(cat) + "_" + ownerKey
}

// ReadRaw returns the serialized value for the category under the current
// owner, if present.
func (s *Store) ReadRaw(cat Category) (string, bool, error) {
	ownerKey, err := s.resolveOwner(cat)
	if err != nil {
		return "", false, err
	}
	return s.kv.Get(StorageKey(cat, ownerKey))
}

// WriteRaw stores a serialized value for the category under the current
// owner.
func (s *Store) WriteRaw(cat Category, value string) error {
	ownerKey, err := s.resolveOwner(cat)
	if err != nil {
		return err
	}
	return s.kv.Set(StorageKey(cat, ownerKey), value)
}

// Clear removes the category's entry for the current owner.
func (s *Store) Clear(cat Category) error {
	ownerKey, err := s.resolveOwner(cat)
	if err != nil {
		return err
	}
	return s.kv.Remove(StorageKey(cat, ownerKey))
}

// ClearAll removes every category entry for an explicit owner key. Used by
// the account-deletion cascade, which runs while it still knows the owner
// but after the session may already be gone.
func (s *Store) ClearAll(ownerKey string) error {
	if ownerKey == "" {
		return ErrNoSession
	}
	for _, cat := range Categories {
		if err := s.kv.Remove(StorageKey(cat, ownerKey)); err != nil {
			return fmt.Errorf("clear %s: %w", cat, err)
		}
	}
	return nil
}

// Read decodes the category's value into T. A missing entry yields T's
// zero value without error.
func Read[T any](s *Store, cat Category) (T, error) {
	var out T
	raw, ok, err := s.ReadRaw(cat)
	if err != nil || !ok {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", cat, err)
	}
	return out, nil
}

// Write encodes and stores the category's value.
func Write[T any](s *Store, cat Category, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", cat, err)
	}
	return s.WriteRaw(cat, string(data))
}
