package client

import (
	"context"
	"time"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/debounce"
)

// SearchSession debounces rapid query updates so a request is not issued
// per keystroke, and discards any response whose query no longer matches
// the latest input. Debouncing approximates cancellation at the call
// site; in-flight requests are never cancelled outright.
type SearchSession struct {
	client    *Client
	debouncer *debounce.Debouncer
	params    SearchParams
}

// NewSearchSession creates a session with the given debounce delay
func NewSearchSession(client *Client, delay time.Duration) *SearchSession {
	return &SearchSession{
		client:    client,
		debouncer: debounce.New(delay),
	}
}

// Update replaces the pending query parameters and schedules a search.
// onResult runs only when the response still matches the latest input;
// onError likewise. Both may be nil.
func (s *SearchSession) Update(ctx context.Context, params SearchParams, onResult func(*catalog.SearchResult), onError func(error)) {
	s.params = params
	s.debouncer.Trigger(func(gen uint64) {
		result, err := s.client.Search(ctx, params)
		if !s.debouncer.Matches(gen) {
			// A newer query superseded this one while it was in flight
			return
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onResult != nil {
			onResult(result)
		}
	})
}

// Close cancels any pending search
func (s *SearchSession) Close() {
	s.debouncer.Stop()
}
