package scoped

import (
	"fmt"
	"time"

	"bookmarket/pkg/domain"
)

// Item list operations shared by cart and wishlist. Both keep insertion
// order; removal matches on bookId. Duplicate bookIds are rejected as a
// no-op so re-clicking "add to cart" cannot multiply an entry.

func itemCategory(cat Category) error {
	if cat != Cart && cat != Wishlist {
		return fmt.Errorf("%w: %q does not hold items", ErrUnknownCategory, cat)
	}
	return nil
}

// Items returns the item list for cart or wishlist, empty when unset.
func (s *Store) Items(cat Category) ([]domain.Item, error) {
	if err := itemCategory(cat); err != nil {
		return nil, err
	}
	return Read[[]domain.Item](s, cat)
}

// AddItem appends the item, stamping AddedAt when unset. Returns false
// without modifying the list when the bookId is already present.
func (s *Store) AddItem(cat Category, item domain.Item) (bool, error) {
	if err := itemCategory(cat); err != nil {
		return false, err
	}
	items, err := Read[[]domain.Item](s, cat)
	if err != nil {
		return false, err
	}
	for _, existing := range items {
		if existing.BookID == item.BookID {
			return false, nil
		}
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	items = append(items, item)
	if err := Write(s, cat, items); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveItem drops the entry with the given bookId. Removing an absent
// bookId is not an error.
func (s *Store) RemoveItem(cat Category, bookID string) error {
	if err := itemCategory(cat); err != nil {
		return err
	}
	items, err := Read[[]domain.Item](s, cat)
	if err != nil {
		return err
	}
	filtered := items[:0]
	for _, item := range items {
		if item.BookID != bookID {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return nil
	}
	return Write(s, cat, filtered)
}

// ItemCount returns the number of entries, for badge counters.
func (s *Store) ItemCount(cat Category) (int, error) {
	items, err := s.Items(cat)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
