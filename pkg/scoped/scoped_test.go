package scoped

import (
	"errors"
	"testing"

	"bookmarket/pkg/domain"
	"bookmarket/pkg/kv"
)

// fakeOwner stands in for the session manager; Key is swapped mid-test to
// model identity switches.
type fakeOwner struct {
	key string
}

func (f *fakeOwner) OwnerKey() string { return f.key }

func TestOwnerIsolation(t *testing.T) {
	store := kv.NewMemoryStore()
	owner := &fakeOwner{key: "userA"}
	s := New(store, owner)

	if _, err := s.AddItem(Cart, domain.Item{BookID: "b1", Title: "Dune"}); err != nil {
		t.Fatalf("add for A: %v", err)
	}

	owner.key = "userB"
	if _, err := s.AddItem(Cart, domain.Item{BookID: "b9", Title: "Emma"}); err != nil {
		t.Fatalf("add for B: %v", err)
	}
	items, err := s.Items(Cart)
	if err != nil {
		t.Fatalf("items for B: %v", err)
	}
	if len(items) != 1 || items[0].BookID != "b9" {
		t.Fatalf("B must see only B's cart, got %+v", items)
	}

	owner.key = "userA"
	items, err = s.Items(Cart)
	if err != nil {
		t.Fatalf("items for A: %v", err)
	}
	if len(items) != 1 || items[0].BookID != "b1" {
		t.Fatalf("A's cart must be intact after switching back, got %+v", items)
	}
}

func TestAnonymousPolicy(t *testing.T) {
	s := New(kv.NewMemoryStore(), &fakeOwner{})

	// Cart and wishlist work before login under the anonymous namespace.
	if _, err := s.AddItem(Cart, domain.Item{BookID: "b1"}); err != nil {
		t.Fatalf("anonymous cart add: %v", err)
	}
	if _, err := s.AddItem(Wishlist, domain.Item{BookID: "b2"}); err != nil {
		t.Fatalf("anonymous wishlist add: %v", err)
	}

	// Everything else requires a session.
	for _, cat := range []Category{Orders, Addresses, PaymentMethods, UserData} {
		if _, err := Read[[]domain.Order](s, cat); !errors.Is(err, ErrNoSession) {
			t.Fatalf("category %s: expected ErrNoSession, got %v", cat, err)
		}
	}
}

func TestAddItemRejectsDuplicates(t *testing.T) {
	s := New(kv.NewMemoryStore(), &fakeOwner{key: "u1"})

	added, err := s.AddItem(Cart, domain.Item{BookID: "b1", Price: 9.99})
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	added, err = s.AddItem(Cart, domain.Item{BookID: "b1", Price: 11.99})
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if added {
		t.Fatalf("duplicate bookId must be rejected")
	}
	items, _ := s.Items(Cart)
	if len(items) != 1 || items[0].Price != 9.99 {
		t.Fatalf("duplicate add must not modify the list, got %+v", items)
	}
}

func TestItemsKeepInsertionOrder(t *testing.T) {
	s := New(kv.NewMemoryStore(), &fakeOwner{key: "u1"})
	for _, id := range []string{"b3", "b1", "b2"} {
		if _, err := s.AddItem(Wishlist, domain.Item{BookID: id}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := s.RemoveItem(Wishlist, "b1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, _ := s.Items(Wishlist)
	if len(items) != 2 || items[0].BookID != "b3" || items[1].BookID != "b2" {
		t.Fatalf("order not preserved: %+v", items)
	}
	// Removing an absent id is a no-op.
	if err := s.RemoveItem(Wishlist, "missing"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestUserDataReadModifyWrite(t *testing.T) {
	s := New(kv.NewMemoryStore(), &fakeOwner{key: "u1"})

	if err := s.SetProfile(domain.Profile{FirstName: "Ada", LastName: "L"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	if err := s.SetNotifications(domain.NotificationPrefs{Promotions: true}); err != nil {
		t.Fatalf("set notifications: %v", err)
	}

	profile, err := s.Profile()
	if err != nil || profile.FirstName != "Ada" {
		t.Fatalf("profile lost after notifications write: %+v err=%v", profile, err)
	}
	prefs, err := s.Notifications()
	if err != nil || !prefs.Promotions {
		t.Fatalf("notifications lost: %+v err=%v", prefs, err)
	}
}

func TestClearAllRemovesEveryCategory(t *testing.T) {
	store := kv.NewMemoryStore()
	s := New(store, &fakeOwner{key: "u1"})

	if _, err := s.AddItem(Cart, domain.Item{BookID: "b1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := Write(s, Orders, []domain.Order{{ID: "o1"}}); err != nil {
		t.Fatalf("write orders: %v", err)
	}
	if err := s.SetProfile(domain.Profile{FirstName: "Ada"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}

	if err := s.ClearAll("u1"); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	for _, cat := range Categories {
		if _, ok, _ := store.Get(StorageKey(cat, "u1")); ok {
			t.Fatalf("category %s not cleared", cat)
		}
	}
}

func TestUnknownCategoryRejected(t *testing.T) {
	s := New(kv.NewMemoryStore(), &fakeOwner{key: "u1"})
	if err := s.WriteRaw(Category("browsingHistory"), "[]"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected unknown category error, got %v", err)
	}
	if _, err := s.AddItem(Orders, domain.Item{BookID: "b1"}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("orders is not an item list, got %v", err)
	}
}

func TestStorageKeyContract(t *testing.T) {
	if got := StorageKey(PaymentMethods, "u1"); got != "paymentMethods_u1" {
		t.Fatalf("storage key contract broken: %q", got)
	}
}
