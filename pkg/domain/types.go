package domain

import "time"

type AccountState string

const (
	StateActive      AccountState = "active"
	StateDeactivated AccountState = "deactivated"
	StateDeleted     AccountState = "deleted"
)

// Identity is the authenticated user record for the current session.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  bool   `json:"isActive"`
}

// OwnerKey returns the stable key used to namespace persisted data for this
// identity. ID is preferred; email covers records that predate server IDs.
func (i Identity) OwnerKey() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Email
}

// AccountStatus is the tagged lifecycle state of an account.
// Since is set only while State is deactivated.
type AccountStatus struct {
	State AccountState `json:"state"`
	Since time.Time    `json:"since,omitzero"`
}

type Book struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
	Genre    string  `json:"genre,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

// Item is a cart or wishlist entry. Sequences keep insertion order.
type Item struct {
	BookID   string    `json:"bookId"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Price    float64   `json:"price"`
	ImageURL string    `json:"imageUrl"`
	AddedAt  time.Time `json:"addedAt"`
}

type Order struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	PlacedAt  time.Time `json:"placedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Address struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

type PaymentMethod struct {
	ID        string `json:"id"`
	Brand     string `json:"brand"`
	Last4     string `json:"last4"`
	ExpMonth  int    `json:"expMonth"`
	ExpYear   int    `json:"expYear"`
	IsDefault bool   `json:"isDefault"`
}

// Profile holds the editable fields shown on the account page.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

type NotificationPrefs struct {
	OrderUpdates   bool `json:"orderUpdates"`
	Promotions     bool `json:"promotions"`
	NewArrivals    bool `json:"newArrivals"`
	PriceDropAlert bool `json:"priceDropAlert"`
}

// UserData bundles profile fields and notification preferences into the
// single per-owner document persisted under userData_<ownerKey>.
type UserData struct {
	Profile       Profile           `json:"profile"`
	Notifications NotificationPrefs `json:"notifications"`
}

// Suggestion is one search autocomplete entry.
type Suggestion struct {
	Text   string `json:"text"`
	BookID string `json:"bookId,omitempty"`
}
