package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/windowseat/windowseat/pkg/opensky"
)

// fakeFetcher counts calls and returns a scripted result.
type fakeFetcher struct {
	payload *opensky.StatesResponse
	err     error
	calls   int
}

func (f *fakeFetcher) GetStates(ctx context.Context) (*opensky.StatesResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func testPayload(t int64) *opensky.StatesResponse {
	return &opensky.StatesResponse{Time: t, States: []opensky.StateVector{{ICAO24: "4952ca"}}}
}

func emptySnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()
	return NewSnapshotStore(filepath.Join(t.TempDir(), "snapshot.json"))
}

func savedSnapshotStore(t *testing.T, payload *opensky.StatesResponse) *SnapshotStore {
	t.Helper()
	store := emptySnapshotStore(t)
	if err := store.Save(payload); err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}
	return store
}

func TestGetStatesLive(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload(100)}
	src := New(fetcher, NewCache(30*time.Second), emptySnapshotStore(t), Options{})

	payload, prov, err := src.GetStates(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prov.Origin != OriginLive {
		t.Errorf("Expected live provenance, got %s", prov)
	}
	if payload.Time != 100 {
		t.Errorf("Expected payload time 100, got %d", payload.Time)
	}
	if fetcher.calls != 1 {
		t.Errorf("Expected 1 fetch, got %d", fetcher.calls)
	}
}

func TestGetStatesCacheFreshness(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload(100)}
	cache := NewCache(30 * time.Second)

	now := time.Unix(1700000000, 0)
	cache.SetClock(func() time.Time { return now })

	src := New(fetcher, cache, emptySnapshotStore(t), Options{})
	ctx := context.Background()

	// First call fetches live and fills the cache.
	_, prov, err := src.GetStates(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prov.Origin != OriginLive {
		t.Fatalf("Expected live on first call, got %s", prov)
	}

	// Second call within the TTL is served from cache with no new fetch.
	now = now.Add(10 * time.Second)
	_, prov, err = src.GetStates(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prov.Origin != OriginCache {
		t.Errorf("Expected cache provenance, got %s", prov)
	}
	if fetcher.calls != 1 {
		t.Errorf("Expected no second fetch, got %d calls", fetcher.calls)
	}

	// Past the TTL the cache is stale and live fetch happens again.
	now = now.Add(30 * time.Second)
	_, prov, err = src.GetStates(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prov.Origin != OriginLive {
		t.Errorf("Expected live after TTL expiry, got %s", prov)
	}
	if fetcher.calls != 2 {
		t.Errorf("Expected 2 fetches, got %d", fetcher.calls)
	}
}

func TestGetStatesRateLimitedFallsBackToSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{err: &opensky.RateLimitError{StatusCode: 429}}
	store := savedSnapshotStore(t, testPayload(50))

	src := New(fetcher, NewCache(30*time.Second), store, Options{})

	payload, prov, err := src.GetStates(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prov.Origin != OriginSnapshot {
		t.Errorf("Expected snapshot provenance, got %s", prov)
	}
	if prov.Detail != "rate limited" {
		t.Errorf("Expected rate limited detail, got %q", prov.Detail)
	}
	if payload.Time != 50 {
		t.Errorf("Expected snapshot payload, got time %d", payload.Time)
	}
}

func TestGetStatesUnavailableWhenAllTiersFail(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	src := New(fetcher, NewCache(30*time.Second), emptySnapshotStore(t), Options{})

	_, _, err := src.GetStates(context.Background())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestGetStatesForceOffline(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload(100)}
	store := savedSnapshotStore(t, testPayload(50))

	src := New(fetcher, NewCache(30*time.Second), store, Options{ForceOffline: true})

	payload, prov, err := src.GetStates(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prov.Origin != OriginSnapshot {
		t.Errorf("Expected snapshot provenance, got %s", prov)
	}
	if prov.Detail != "forced offline" {
		t.Errorf("Expected forced offline detail, got %q", prov.Detail)
	}
	if payload.Time != 50 {
		t.Errorf("Expected snapshot payload, got time %d", payload.Time)
	}
	if fetcher.calls != 0 {
		t.Errorf("Expected no live fetch in offline mode, got %d calls", fetcher.calls)
	}
}

func TestGetStatesForceOfflineWithoutSnapshot(t *testing.T) {
	src := New(&fakeFetcher{}, NewCache(time.Second), emptySnapshotStore(t), Options{ForceOffline: true})

	_, _, err := src.GetStates(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestGetStatesSavesSnapshotWhenConfigured(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload(100)}
	store := emptySnapshotStore(t)

	src := New(fetcher, NewCache(30*time.Second), store, Options{SaveSnapshot: true})

	if _, _, err := src.GetStates(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	saved, err := store.Load()
	if err != nil {
		t.Fatalf("Expected snapshot to exist, got %v", err)
	}
	if saved.Time != 100 {
		t.Errorf("Expected snapshot time 100, got %d", saved.Time)
	}
}

func TestProvenanceString(t *testing.T) {
	if got := (Provenance{Origin: OriginLive}).String(); got != "live" {
		t.Errorf("Expected live, got %q", got)
	}
	got := Provenance{Origin: OriginSnapshot, Detail: "rate limited"}.String()
	if got != "snapshot (rate limited)" {
		t.Errorf("Expected annotated snapshot provenance, got %q", got)
	}
}

func TestErrorClass(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Rate limited", &opensky.RateLimitError{StatusCode: 429}, "rate limited"},
		{"Upstream status", &opensky.HTTPError{StatusCode: 502}, "upstream status 502"},
		{"Timeout", context.DeadlineExceeded, "timeout"},
		{"Other", errors.New("connection refused"), "network error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorClass(tt.err); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := emptySnapshotStore(t)

	cs := "TAP1079 "
	lat := 38.77
	payload := &opensky.StatesResponse{
		Time: 1700000000,
		States: []opensky.StateVector{
			{ICAO24: "4952ca", Callsign: &cs, OriginCountry: "Portugal", Latitude: &lat},
		},
	}

	if err := store.Save(payload); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loaded.Time != payload.Time {
		t.Errorf("Expected time %d, got %d", payload.Time, loaded.Time)
	}
	if len(loaded.States) != 1 {
		t.Fatalf("Expected 1 state, got %d", len(loaded.States))
	}
	sv := loaded.States[0]
	if sv.ICAO24 != "4952ca" {
		t.Errorf("Expected icao24 4952ca, got %s", sv.ICAO24)
	}
	if sv.Callsign == nil || *sv.Callsign != cs {
		t.Errorf("Expected callsign preserved, got %v", sv.Callsign)
	}
	if sv.Latitude == nil || *sv.Latitude != lat {
		t.Errorf("Expected latitude preserved, got %v", sv.Latitude)
	}
}

func TestSnapshotStoreMissingFile(t *testing.T) {
	store := emptySnapshotStore(t)

	_, err := store.Load()
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Expected ErrNoSnapshot, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "snapshot") {
		t.Errorf("Expected path context in error, got %v", err)
	}
}

func TestCache(t *testing.T) {
	t.Run("Empty cache is not fresh", func(t *testing.T) {
		c := NewCache(30 * time.Second)
		if c.IsFresh() {
			t.Error("Expected empty cache to be stale")
		}
		if _, ok := c.Get(); ok {
			t.Error("Expected no payload from empty cache")
		}
	})

	t.Run("Zero TTL is never fresh", func(t *testing.T) {
		c := NewCache(0)
		c.Put(testPayload(1))
		if c.IsFresh() {
			t.Error("Expected zero-TTL cache to be stale")
		}
	})

	t.Run("Put overwrites previous entry", func(t *testing.T) {
		c := NewCache(30 * time.Second)
		c.Put(testPayload(1))
		c.Put(testPayload(2))
		got, ok := c.Get()
		if !ok {
			t.Fatal("Expected fresh payload")
		}
		if got.Time != 2 {
			t.Errorf("Expected latest payload, got time %d", got.Time)
		}
	})
}
