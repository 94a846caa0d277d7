// ABOUTME: Tests for the availability ladder: fresh cache, network, stale cache, miss
// ABOUTME: Covers TTL expiry, timeout abort, and the parsed-success-only cache write

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/marquee/store"
)

type countingServer struct {
	srv   *httptest.Server
	calls int32
}

func newCountingServer(payload string) *countingServer {
	cs := &countingServer{}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&cs.calls, 1)
		fmt.Fprint(w, payload)
	}))
	return cs
}

func (cs *countingServer) Calls() int {
	return int(atomic.LoadInt32(&cs.calls))
}

// deadURL points at a server that is already gone, so every attempt
// fails fast with a connection error.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

func newTestFetcher(t *testing.T) (*Fetcher, *store.KV, func()) {
	t.Helper()
	kv, cleanup := store.NewTestKV(t)
	return NewFetcher(kv), kv, cleanup
}

func TestLiveFetchPopulatesCache(t *testing.T) {
	f, kv, cleanup := newTestFetcher(t)
	defer cleanup()

	cs := newCountingServer(`{"n": 7}`)
	defer cs.srv.Close()

	var got map[string]interface{}
	status := f.FetchJSON(context.Background(), "k", cs.srv.URL, time.Minute, &got)

	assert.Equal(t, StatusLive, status)
	assert.Equal(t, float64(7), got["n"])

	raw, ok := kv.Get(keyPrefix + "k")
	require.True(t, ok, "a successful fetch persists a cache entry")
	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.JSONEq(t, `{"n": 7}`, string(entry.Data))
	assert.NotZero(t, entry.Timestamp)
}

func TestFreshCacheSkipsNetwork(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	cs := newCountingServer(`{"n": 7}`)
	defer cs.srv.Close()

	ctx := context.Background()
	var first, second map[string]interface{}
	f.FetchJSON(ctx, "k", cs.srv.URL, time.Minute, &first)
	status := f.FetchJSON(ctx, "k", cs.srv.URL, time.Minute, &second)

	assert.Equal(t, StatusFresh, status)
	assert.Equal(t, 1, cs.Calls(), "a fresh entry must not touch the network")
	assert.Equal(t, first, second)
}

func TestExpiredCacheWithDeadNetworkServesStale(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	cs := newCountingServer(`{"n": 7}`)
	defer cs.srv.Close()

	ctx := context.Background()
	var seed map[string]interface{}
	require.Equal(t, StatusLive, f.FetchJSON(ctx, "k", cs.srv.URL, time.Minute, &seed))

	// Past TTL, and the origin is gone: the old value still shows.
	now = now.Add(5 * time.Minute)
	var got map[string]interface{}
	status := f.FetchJSON(ctx, "k", deadURL(t), time.Minute, &got)

	assert.Equal(t, StatusStale, status)
	assert.Equal(t, float64(7), got["n"], "stale data beats no data")
}

func TestNoCacheAndDeadNetworkIsMiss(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	var got map[string]interface{}
	status := f.FetchJSON(context.Background(), "k", deadURL(t), time.Minute, &got)

	assert.Equal(t, StatusMiss, status, "the caller's fallback applies")
}

func TestNon2xxFallsDownTheLadder(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var got map[string]interface{}
	status := f.FetchJSON(context.Background(), "k", srv.URL, time.Minute, &got)

	assert.Equal(t, StatusMiss, status)
}

func TestGarbledBodyIsNotCached(t *testing.T) {
	f, kv, cleanup := newTestFetcher(t)
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<<<definitely not json>>>")
	}))
	defer srv.Close()

	var got map[string]interface{}
	status := f.FetchJSON(context.Background(), "k", srv.URL, time.Minute, &got)

	assert.Equal(t, StatusMiss, status, "a 200 with an unusable body is a failure")
	_, ok := kv.Get(keyPrefix + "k")
	assert.False(t, ok, "only fully parsed responses are written")
}

func TestTimeoutAbortsIntoStalePath(t *testing.T) {
	f, kv, cleanup := newTestFetcher(t)
	defer cleanup()
	f.client = &http.Client{Timeout: 50 * time.Millisecond}

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"n": 99}`)
	}))
	defer slow.Close()

	// Seed an already-expired entry by hand.
	seeded := Entry{Data: json.RawMessage(`{"n": 7}`), Timestamp: time.Now().Add(-time.Hour).UnixMilli()}
	blob, err := json.Marshal(seeded)
	require.NoError(t, err)
	kv.Set(keyPrefix+"k", string(blob))

	start := time.Now()
	var got map[string]interface{}
	status := f.FetchJSON(context.Background(), "k", slow.URL, time.Minute, &got)
	elapsed := time.Since(start)

	assert.Equal(t, StatusStale, status)
	assert.Equal(t, float64(7), got["n"])
	assert.Less(t, elapsed, 250*time.Millisecond, "the request must be aborted, not waited out")

	// The aborted call must not have touched the stored entry.
	raw, ok := kv.Get(keyPrefix + "k")
	require.True(t, ok)
	var after Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &after))
	assert.Equal(t, seeded.Timestamp, after.Timestamp, "cancellation must not corrupt cache state")
}

func TestCorruptCacheEntryIsIgnored(t *testing.T) {
	f, kv, cleanup := newTestFetcher(t)
	defer cleanup()

	kv.Set(keyPrefix+"k", "][ not an envelope")

	cs := newCountingServer(`{"n": 1}`)
	defer cs.srv.Close()

	var got map[string]interface{}
	status := f.FetchJSON(context.Background(), "k", cs.srv.URL, time.Minute, &got)

	assert.Equal(t, StatusLive, status, "an unreadable entry falls through to the network")
}

func TestIndependentKeysDoNotShareEntries(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	weather := newCountingServer(`{"kind": "weather"}`)
	defer weather.srv.Close()
	news := newCountingServer(`{"kind": "news"}`)
	defer news.srv.Close()

	ctx := context.Background()
	var a, b map[string]interface{}
	f.FetchJSON(ctx, "weather", weather.srv.URL, time.Minute, &a)
	f.FetchJSON(ctx, "news", news.srv.URL, time.Minute, &b)

	assert.Equal(t, "weather", a["kind"])
	assert.Equal(t, "news", b["kind"])
	assert.Equal(t, 1, weather.Calls())
	assert.Equal(t, 1, news.Calls())
}

func TestEntryFreshBoundary(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ttl := time.Minute

	justInside := Entry{Timestamp: now.Add(-ttl + time.Millisecond).UnixMilli()}
	exactlyAtTTL := Entry{Timestamp: now.Add(-ttl).UnixMilli()}

	assert.True(t, justInside.Fresh(now, ttl))
	assert.False(t, exactlyAtTTL.Fresh(now, ttl), "an entry aged exactly TTL is stale")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "fresh", StatusFresh.String())
	assert.Equal(t, "live", StatusLive.String())
	assert.Equal(t, "stale", StatusStale.String())
	assert.Equal(t, "miss", StatusMiss.String())
}
