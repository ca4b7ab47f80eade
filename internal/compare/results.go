package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/comparekart/catalog-service/internal/catalog"
)

// State is the results assembly lifecycle. Transitions are
// one-directional except Retry, which re-enters Loading from Error.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateEmpty   State = "empty"
	StateError   State = "error"
)

// ErrNotRetryable is returned by Retry outside the Error state
var ErrNotRetryable = errors.New("compare: retry is only valid from the error state")

// ProductGetter fetches one product by id. Implemented by the catalog
// repository server-side and by the REST client in the CLI.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// AssemblerConfig configures a results assembly
type AssemblerConfig struct {
	SlotCount  int // display list minimum, 4 by default
	FetchLimit int // max concurrent per-id fetches
}

// Assembler runs the comparison-results state machine: it re-fetches the
// candidate ids carried over from Submit, tolerates per-id failures,
// filters vendorless and removed products, and pads the display list.
type Assembler struct {
	getter  ProductGetter
	removed *RemovedSet
	cfg     AssemblerConfig
	logger  zerolog.Logger

	mu      sync.Mutex
	state   State
	ids     []string
	entries []Entry
	lastErr error
}

// NewAssembler creates an assembler in the Idle state
func NewAssembler(getter ProductGetter, removed *RemovedSet, cfg AssemblerConfig, logger zerolog.Logger) *Assembler {
	if cfg.SlotCount <= 0 {
		cfg.SlotCount = DefaultSlotCount
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = DefaultSlotCount
	}
	return &Assembler{
		getter:  getter,
		removed: removed,
		cfg:     cfg,
		state:   StateIdle,
		logger:  logger,
	}
}

// State returns the current lifecycle state
func (a *Assembler) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Entries returns the assembled display list (valid after Ready/Empty)
func (a *Assembler) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Err returns the batch error recorded in the Error state
func (a *Assembler) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Load runs the full assembly for the given candidate ids. Per-id fetch
// failures are logged and dropped; one bad id never fails the batch.
// Only a dispatch-level failure (context cancelled, exclusion set
// unreadable) lands in the Error state.
func (a *Assembler) Load(ctx context.Context, ids []string) error {
	a.mu.Lock()
	a.state = StateLoading
	a.ids = append([]string(nil), ids...)
	a.lastErr = nil
	a.mu.Unlock()

	start := time.Now()
	entries, err := a.assemble(ctx, ids)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.state = StateError
		a.lastErr = err
		assemblyDuration.WithLabelValues(string(StateError)).Observe(time.Since(start).Seconds())
		return err
	}

	a.entries = entries
	if countReal(entries) == 0 {
		a.state = StateEmpty
	} else {
		a.state = StateReady
	}
	assemblyDuration.WithLabelValues(string(a.state)).Observe(time.Since(start).Seconds())
	return nil
}

// Retry re-runs the assembly with the original ids. Valid only from the
// Error state.
func (a *Assembler) Retry(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateError {
		a.mu.Unlock()
		return ErrNotRetryable
	}
	ids := append([]string(nil), a.ids...)
	a.mu.Unlock()

	return a.Load(ctx, ids)
}

func (a *Assembler) assemble(ctx context.Context, ids []string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("comparison dispatch: %w", err)
	}

	if a.removed != nil {
		if err := a.removed.Load(ctx); err != nil {
			return nil, fmt.Errorf("comparison dispatch: %w", err)
		}
	}

	unique := dedupe(ids)

	// All-settled join: every fetch runs to completion, failures are
	// recorded per slot and never cancel siblings. Output order follows
	// the input id order, not completion order.
	fetched := make([]*catalog.Product, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.FetchLimit)
	for i, id := range unique {
		g.Go(func() error {
			p, err := a.getter.GetProduct(gctx, id)
			if err != nil {
				fetchFailures.Inc()
				a.logger.Warn().Err(err).Str("product_id", id).Msg("Dropping product from comparison")
				return nil
			}
			fetched[i] = p
			return nil
		})
	}
	// Goroutines always return nil; Wait only orders the join.
	_ = g.Wait()

	entries := make([]Entry, 0, a.cfg.SlotCount)
	for i, p := range fetched {
		if p == nil {
			continue
		}
		if !p.HasVendorData() {
			a.logger.Warn().Str("product_id", unique[i]).Msg("Product has no vendor data, excluding from comparison")
			continue
		}
		if a.removed != nil && a.removed.Contains(p.ID) {
			continue
		}
		entries = append(entries, Entry{
			Product:  p,
			Name:     p.Title,
			ImageURL: p.Image.Thumbnail,
		})
	}

	return PadToMinimum(entries, a.cfg.SlotCount, FallbackEntry), nil
}

func countReal(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if !e.IsFallback {
			n++
		}
	}
	return n
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
