// SPDX-License-Identifier: MIT

// Package refresh implements the background job that downloads the upstream
// catalogs, enriches and filters them, persists a snapshot and atomically
// republishes the in-memory view.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xtreamgate/xtreamgate/internal/cache"
	"github.com/xtreamgate/xtreamgate/internal/catalog"
	"github.com/xtreamgate/xtreamgate/internal/config"
	"github.com/xtreamgate/xtreamgate/internal/log"
	"github.com/xtreamgate/xtreamgate/internal/metrics"
)

// ErrBusy is returned when a refresh is triggered while one is running.
// It signals "already in progress", not a failure.
var ErrBusy = errors.New("refresh already in progress")

// UpstreamClient is the slice of the upstream API the refresh job needs.
type UpstreamClient interface {
	Categories(ctx context.Context, t catalog.ContentType) ([]catalog.Category, error)
	Streams(ctx context.Context, t catalog.ContentType) ([]catalog.Item, error)
}

// FilterSource resolves the current prefix allow-lists. It is read once per
// cycle so a settings reload mid-cycle cannot mix filter generations.
type FilterSource func() config.Filters

// RunnerConfig tunes the runner. Zero values pick the defaults.
type RunnerConfig struct {
	// Timeout bounds one whole background cycle across all content types.
	Timeout time.Duration

	// Clock supplies snapshot timestamps; tests inject a fixed clock.
	Clock func() time.Time
}

// Runner orchestrates refresh cycles. It is the sole writer of the snapshot
// store, the published view and the job status.
type Runner struct {
	client    UpstreamClient
	store     *cache.Store
	published *cache.Published
	filters   FilterSource
	tracker   *Tracker
	timeout   time.Duration
	clock     func() time.Time
}

// NewRunner wires a runner. All collaborators are required except the
// RunnerConfig fields.
func NewRunner(client UpstreamClient, store *cache.Store, published *cache.Published, filters FilterSource, cfg RunnerConfig) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Runner{
		client:    client,
		store:     store,
		published: published,
		filters:   filters,
		tracker:   NewTracker(),
		timeout:   cfg.Timeout,
		clock:     cfg.Clock,
	}
}

// Status returns the current job status.
func (r *Runner) Status() Status {
	return r.tracker.Current()
}

// Trigger starts a refresh cycle in the background and returns immediately.
// Returns ErrBusy when a cycle is already running; at most one cycle
// executes at a time.
func (r *Runner) Trigger() error {
	if !r.tracker.begin("Starting download...") {
		metrics.RecordRefreshBusy()
		return ErrBusy
	}

	jobID := uuid.NewString()
	go func() {
		// Independent context: the cycle must not die with the request
		// that triggered it.
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		ctx = log.ContextWithJobID(ctx, jobID)
		_ = r.run(ctx)
	}()
	return nil
}

// RunOnce executes one refresh cycle synchronously. Returns ErrBusy when a
// cycle is already running.
func (r *Runner) RunOnce(ctx context.Context) error {
	if !r.tracker.begin("Starting download...") {
		metrics.RecordRefreshBusy()
		return ErrBusy
	}
	if log.JobIDFromContext(ctx) == "" {
		ctx = log.ContextWithJobID(ctx, uuid.NewString())
	}
	return r.run(ctx)
}

// run executes the cycle. The caller must have acquired the Running state.
func (r *Runner) run(ctx context.Context) error {
	logger := log.WithComponentFromContext(ctx, "refresh")
	logger.Info().Str("event", "refresh.start").Msg("starting refresh")
	start := time.Now()

	snap := cache.NewSnapshot(r.clock())
	filters := r.filters()

	for _, t := range catalog.All() {
		r.tracker.progress("Downloading " + t.String() + "...")

		cats, err := r.client.Categories(ctx, t)
		if err != nil {
			return r.abort(logger, fmt.Errorf("%s categories: %w", t, err))
		}
		items, err := r.client.Streams(ctx, t)
		if err != nil {
			return r.abort(logger, fmt.Errorf("%s streams: %w", t, err))
		}

		r.tracker.progress("Filtering " + t.String() + "...")

		byID := make(map[string]catalog.Category, len(cats))
		for _, c := range cats {
			if id := c.ID(); id != "" {
				byID[id] = c
			}
		}

		// Enrichment always wins over whatever name the item carried.
		for _, it := range items {
			if c, ok := byID[it.CategoryID()]; ok {
				it.SetCategoryName(c.Name())
			}
		}

		kept := catalog.FilterByPrefix(items, filters.For(t))

		keptIDs := make(map[string]struct{}, len(byID))
		for _, it := range kept {
			if id := it.CategoryID(); id != "" {
				keptIDs[id] = struct{}{}
			}
		}
		retained := make([]catalog.Category, 0, len(keptIDs))
		for _, c := range cats {
			if _, ok := keptIDs[c.ID()]; ok {
				retained = append(retained, c)
			}
		}

		snap.Data[t] = kept
		snap.Categories[t] = retained

		logger.Info().
			Str("event", "refresh.type_done").
			Str("type", t.String()).
			Int("fetched", len(items)).
			Int("kept", len(kept)).
			Int("categories", len(retained)).
			Msg("content type processed")
	}

	r.tracker.progress("Saving to disk...")
	if err := r.store.Save(snap); err != nil {
		return r.abort(logger, fmt.Errorf("persist snapshot: %w", err))
	}

	// Publish only after the snapshot is durable. The swap is the single
	// point where readers move from the old dataset to the new one.
	r.published.Swap(cache.NewView(snap))

	for _, t := range catalog.All() {
		metrics.RecordCatalogCounts(t.String(), len(snap.Data[t]), len(snap.Categories[t]))
	}
	duration := time.Since(start)
	metrics.RecordRefreshSuccess(duration)
	r.tracker.succeed("Last run successful", r.clock())

	logger.Info().
		Str("event", "refresh.success").
		Int64("duration_ms", duration.Milliseconds()).
		Msg("refresh completed")
	return nil
}

// abort records a failed cycle. The previously published snapshot and view
// stay untouched and servable.
func (r *Runner) abort(logger zerolog.Logger, err error) error {
	metrics.RecordRefreshFailure()
	r.tracker.fail(err.Error())
	logger.Error().
		Err(err).
		Str("event", "refresh.failed").
		Msg("refresh aborted")
	return err
}
