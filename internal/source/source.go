// Package source obtains the raw aircraft-state collection through a
// fallback chain: in-memory time-boxed cache, live network fetch,
// on-disk snapshot. Every payload it returns carries a provenance tag
// so callers and API consumers can tell where the data came from.
package source

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/windowseat/windowseat/pkg/opensky"
)

// Origin identifies which tier of the fallback chain produced a payload.
type Origin string

const (
	OriginLive     Origin = "live"
	OriginCache    Origin = "cache"
	OriginSnapshot Origin = "snapshot"
)

// Provenance describes where a returned payload came from. Detail is
// non-empty only for snapshot payloads, naming the error class that
// forced the fallback (or "forced offline").
type Provenance struct {
	Origin Origin
	Detail string
}

// String renders the provenance as served to API consumers, e.g.
// "snapshot (rate limited)".
func (p Provenance) String() string {
	if p.Detail == "" {
		return string(p.Origin)
	}
	return fmt.Sprintf("%s (%s)", p.Origin, p.Detail)
}

// ErrUnavailable is returned when every tier of the chain failed: no
// fresh cache, live fetch failed, and no snapshot exists.
var ErrUnavailable = errors.New("aircraft state data unavailable")

// Fetcher is the live-fetch dependency; *opensky.Client satisfies it.
type Fetcher interface {
	GetStates(ctx context.Context) (*opensky.StatesResponse, error)
}

// Options configures a Source.
type Options struct {
	// SaveSnapshot overwrites the snapshot file after each successful
	// live fetch.
	SaveSnapshot bool

	// ForceOffline serves the snapshot directly, skipping cache and
	// live fetch.
	ForceOffline bool
}

// Source resolves the current aircraft-state payload with fallback.
type Source struct {
	fetcher   Fetcher
	cache     *Cache
	snapshots *SnapshotStore
	opts      Options
}

// New creates a Source. cache and snapshots may not be nil; pass a
// zero-TTL cache to disable caching.
func New(fetcher Fetcher, cache *Cache, snapshots *SnapshotStore, opts Options) *Source {
	return &Source{
		fetcher:   fetcher,
		cache:     cache,
		snapshots: snapshots,
		opts:      opts,
	}
}

// GetStates returns the current payload and its provenance.
//
// Precedence: fresh cache entry, then live fetch (stored in cache and
// optionally saved as snapshot on success), then the snapshot file with
// the triggering error class recorded in the provenance detail. When
// the chain is exhausted the returned error wraps ErrUnavailable.
func (s *Source) GetStates(ctx context.Context) (*opensky.StatesResponse, Provenance, error) {
	if s.opts.ForceOffline {
		payload, err := s.snapshots.Load()
		if err != nil {
			return nil, Provenance{}, fmt.Errorf("%w: offline mode: %v", ErrUnavailable, err)
		}
		return payload, Provenance{Origin: OriginSnapshot, Detail: "forced offline"}, nil
	}

	if payload, ok := s.cache.Get(); ok {
		return payload, Provenance{Origin: OriginCache}, nil
	}

	payload, fetchErr := s.fetcher.GetStates(ctx)
	if fetchErr == nil {
		s.cache.Put(payload)
		if s.opts.SaveSnapshot {
			if err := s.snapshots.Save(payload); err != nil {
				log.Printf("Warning: failed to save snapshot: %v", err)
			}
		}
		return payload, Provenance{Origin: OriginLive}, nil
	}

	payload, snapErr := s.snapshots.Load()
	if snapErr != nil {
		return nil, Provenance{}, fmt.Errorf("%w: live fetch failed (%v) and snapshot failed (%v)",
			ErrUnavailable, fetchErr, snapErr)
	}

	return payload, Provenance{Origin: OriginSnapshot, Detail: errorClass(fetchErr)}, nil
}

// errorClass names the failure category for provenance annotation.
func errorClass(err error) string {
	if _, ok := opensky.IsRateLimitError(err); ok {
		return "rate limited"
	}
	var httpErr *opensky.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("upstream status %d", httpErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "network error"
}
