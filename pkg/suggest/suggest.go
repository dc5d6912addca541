// Package suggest drives search autocomplete: keystrokes are coalesced
// with a trailing debounce window so only the last input issues a network
// call, and stale responses are discarded by sequence token so a slow
// request can never overwrite suggestions for newer input.
package suggest

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"bookmarket/pkg/apiclient"
	"bookmarket/pkg/domain"
)

// DefaultWindow is the trailing debounce window between the last keystroke
// and the autocomplete request.
const DefaultWindow = 300 * time.Millisecond

const minQueryLen = 2

// Suggester delivers autocomplete suggestions to a single sink. There is
// no fallback tier for autocomplete: any failure degrades to delivering no
// suggestions.
type Suggester struct {
	api     *apiclient.Client
	window  time.Duration
	limit   int
	timeout time.Duration
	deliver func(query string, suggestions []domain.Suggestion)

	seq atomic.Uint64

	mu    sync.Mutex
	timer *time.Timer
}

// New constructs a suggester. window <= 0 selects DefaultWindow. deliver is
// invoked from a background goroutine once per non-stale response.
func New(api *apiclient.Client, window time.Duration, limit int, deliver func(string, []domain.Suggestion)) *Suggester {
	if window <= 0 {
		window = DefaultWindow
	}
	if limit <= 0 {
		limit = 5
	}
	return &Suggester{
		api:     api,
		window:  window,
		limit:   limit,
		timeout: 10 * time.Second,
		deliver: deliver,
	}
}

// Type records a keystroke. Only the last call within the debounce window
// issues a request. Queries below the minimum length clear suggestions and
// cancel any pending request.
func (s *Suggester) Type(query string) {
	token := s.seq.Add(1)

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(query) < minQueryLen {
		s.mu.Unlock()
		s.deliver(query, nil)
		return
	}
	s.timer = time.AfterFunc(s.window, func() {
		s.fetch(token, query)
	})
	s.mu.Unlock()
}

// Stop cancels any pending request without delivering.
func (s *Suggester) Stop() {
	s.seq.Add(1)
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}

func (s *Suggester) fetch(token uint64, query string) {
	// A newer keystroke arrived while the timer was firing.
	if token != s.seq.Load() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	suggestions, err := s.api.Autocomplete(ctx, query, s.limit)
	if err != nil {
		slog.Debug("autocomplete failed", "query", query, "error", err)
		return
	}
	// Discard a response that raced with newer input.
	if token != s.seq.Load() {
		return
	}
	s.deliver(query, suggestions)
}
