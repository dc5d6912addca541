package mockapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookmarket/pkg/apiclient"
)

func newTestServer(t *testing.T, aiEnabled bool) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(New(Config{AIEnabled: aiEnabled}).Router())
	t.Cleanup(srv.Close)
	return apiclient.NewClient(srv.URL, 0)
}

func TestRegisterLoginLifecycleFlow(t *testing.T) {
	api := newTestServer(t, true)
	ctx := context.Background()

	user, err := api.Register(ctx, apiclient.RegisterRequest{
		Email:    "reader@example.com",
		Password: "booklover1",
		Username: "reader",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" || !user.IsActive {
		t.Fatalf("unexpected registered user: %+v", user)
	}

	res, err := api.Login(ctx, "reader@example.com", "booklover1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.User.ID != user.ID {
		t.Fatalf("unexpected login result: %+v", res)
	}

	deactivated, err := api.Deactivate(ctx, res.Token)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if deactivated.IsActive {
		t.Fatalf("expected inactive user after deactivation")
	}

	activated, err := api.Activate(ctx, res.Token)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !activated.IsActive {
		t.Fatalf("expected active user after reactivation")
	}

	if err := api.DeleteAccount(ctx, res.Token, "booklover1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// The session died with the account.
	if _, err := api.Deactivate(ctx, res.Token); err == nil {
		t.Fatalf("expected unauthorized after deletion")
	}
	// And the login no longer exists.
	if _, err := api.Login(ctx, "reader@example.com", "booklover1"); err == nil {
		t.Fatalf("expected login failure after deletion")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestServer(t, true)
	ctx := context.Background()

	if _, err := api.Register(ctx, apiclient.RegisterRequest{Email: "a@x.com", Password: "booklover1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := api.Login(ctx, "a@x.com", "wrong-password")
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got: %v", err)
	}
}

func TestDeleteRequiresCorrectPassword(t *testing.T) {
	api := newTestServer(t, true)
	ctx := context.Background()

	if _, err := api.Register(ctx, apiclient.RegisterRequest{Email: "a@x.com", Password: "booklover1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := api.Login(ctx, "a@x.com", "booklover1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := api.DeleteAccount(ctx, res.Token, "wrong"); err == nil {
		t.Fatalf("expected password rejection")
	}
	// Account still works.
	if _, err := api.Login(ctx, "a@x.com", "booklover1"); err != nil {
		t.Fatalf("account must survive failed delete: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	api := newTestServer(t, true)
	ctx := context.Background()

	if _, err := api.Register(ctx, apiclient.RegisterRequest{Email: "a@x.com", Password: "booklover1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := api.Register(ctx, apiclient.RegisterRequest{Email: "a@x.com", Password: "other-pass"})
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected 409, got: %v", err)
	}
}

func TestAIEndpointsReportFailureWhenDisabled(t *testing.T) {
	api := newTestServer(t, false)
	ctx := context.Background()

	if _, err := api.Recommendations(ctx, "trending", 4); err == nil {
		t.Fatalf("expected recommendations failure with AI disabled")
	}
	if _, err := api.Autocomplete(ctx, "dune", 5); err == nil {
		t.Fatalf("expected autocomplete failure with AI disabled")
	}
	// Plain catalog still serves.
	books, err := api.Books(ctx)
	if err != nil || len(books) == 0 {
		t.Fatalf("books: %v (%d)", err, len(books))
	}
}

func TestAutocompleteMatchesTitlesAndAuthors(t *testing.T) {
	api := newTestServer(t, true)
	suggestions, err := api.Autocomplete(context.Background(), "hail", 5)
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].Text != "Project Hail Mary" {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
}
