package fallback

import (
	"context"
	"errors"
	"testing"
)

func fixed(items ...string) Named[string] {
	return Named[string]{Name: "fixed", Provide: func(context.Context) ([]string, error) {
		return items, nil
	}}
}

func failing() Named[string] {
	return Named[string]{Name: "failing", Provide: func(context.Context) ([]string, error) {
		return nil, errors.New("boom")
	}}
}

func TestResolveSkipsEmptyTiers(t *testing.T) {
	got := Resolve(context.Background(), fixed(), fixed(), fixed("a", "b", "c"))
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("expected tertiary items, got %v", got)
	}
}

func TestResolveSkipsFailedTiers(t *testing.T) {
	got := Resolve(context.Background(), failing(), fixed("x"), fixed("never"))
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected secondary result, got %v", got)
	}
}

func TestResolvePrimaryWins(t *testing.T) {
	calls := 0
	spy := Named[string]{Name: "spy", Provide: func(context.Context) ([]string, error) {
		calls++
		return []string{"later"}, nil
	}}
	got := Resolve(context.Background(), fixed("first"), spy)
	if len(got) != 1 || got[0] != "first" {
		t.Fatalf("expected primary result, got %v", got)
	}
	if calls != 0 {
		t.Fatalf("secondary must not run when primary succeeds")
	}
}

func TestResolveAllMissYieldsEmpty(t *testing.T) {
	got := Resolve(context.Background(), failing(), fixed())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected explicit empty result, got %v", got)
	}
}

func TestResolveStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	spy := Named[string]{Name: "spy", Provide: func(context.Context) ([]string, error) {
		calls++
		return []string{"x"}, nil
	}}
	if got := Resolve(ctx, spy); len(got) != 0 {
		t.Fatalf("expected empty on cancelled context, got %v", got)
	}
	if calls != 0 {
		t.Fatalf("providers must not run after cancellation")
	}
}
