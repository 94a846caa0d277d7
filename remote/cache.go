// ABOUTME: TTL-cached, stale-tolerant retrieval layer for remote display data
// ABOUTME: Ladder per fetch: fresh cache, timed network call, stale cache, caller fallback

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/harperreed/marquee/store"
)

// RequestTimeout bounds every network attempt. On expiry the request
// is aborted mid-flight and the ladder falls through to stale cache;
// there is no retry within the same call.
const RequestTimeout = 8 * time.Second

// keyPrefix namespaces cache entries inside the shared KV store.
const keyPrefix = "cache:"

// Status classifies how a fetch was satisfied.
type Status int

const (
	// StatusFresh means the cache answered within TTL; no network call
	// was made.
	StatusFresh Status = iota
	// StatusLive means the network answered and the cache was
	// refreshed.
	StatusLive
	// StatusStale means the network failed and an expired cache entry
	// was served instead.
	StatusStale
	// StatusMiss means nothing was available; the caller's fallback
	// applies.
	StatusMiss
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusLive:
		return "live"
	case StatusStale:
		return "stale"
	case StatusMiss:
		return "miss"
	}
	return "unknown"
}

// Entry is the persisted cache envelope: the canonical JSON payload
// plus its fetch time in epoch milliseconds. Entries are never swept,
// only superseded or ignored once past TTL.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Fresh reports whether the entry is within ttl at now.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-e.Timestamp < ttl.Milliseconds()
}

// decoder turns a raw response body into the canonical JSON to cache.
// Returning an error marks the response unusable, which sends the
// ladder down to stale cache.
type decoder func(body []byte) (json.RawMessage, error)

// Fetcher walks the availability ladder on behalf of the display
// widgets. Each cache key is independent; concurrent polls on
// different keys never contend beyond the KV itself.
type Fetcher struct {
	kv     *store.KV
	client *http.Client
	now    func() time.Time
}

// NewFetcher returns a Fetcher over kv with the fixed request timeout.
func NewFetcher(kv *store.KV) *Fetcher {
	return &Fetcher{
		kv:     kv,
		client: &http.Client{Timeout: RequestTimeout},
		now:    time.Now,
	}
}

// FetchJSON retrieves url's JSON body into v, cache first. The body is
// cached as-is, but only when it is valid JSON that decodes into v; a
// garbled 200 falls down the ladder like any network failure.
func (f *Fetcher) FetchJSON(ctx context.Context, key, url string, ttl time.Duration, v interface{}) Status {
	return f.fetch(ctx, key, url, ttl, passthroughJSON, v)
}

func passthroughJSON(body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, errors.New("response is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// fetch is the ladder. decode produces the canonical cached form from
// a live body; v receives whichever rung answered.
func (f *Fetcher) fetch(ctx context.Context, key, url string, ttl time.Duration, decode decoder, v interface{}) Status {
	entry, cached := f.lookup(key)
	if cached && entry.Fresh(f.now(), ttl) {
		if json.Unmarshal(entry.Data, v) == nil {
			return StatusFresh
		}
		// An unreadable cached payload is as good as no cache.
		cached = false
	}

	body, err := f.download(ctx, url)
	if err == nil {
		canon, decodeErr := decode(body)
		if decodeErr == nil && json.Unmarshal(canon, v) == nil {
			f.persist(key, canon)
			return StatusLive
		}
		log.Printf("remote: %s answered but payload was unusable: %v", url, decodeErr)
	} else {
		log.Printf("remote: fetch %s failed: %v", url, err)
	}

	if cached && json.Unmarshal(entry.Data, v) == nil {
		return StatusStale
	}
	return StatusMiss
}

func (f *Fetcher) lookup(key string) (*Entry, bool) {
	raw, ok := f.kv.Get(keyPrefix + key)
	if !ok {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// persist writes a fresh entry best-effort; the KV already absorbs
// medium failures, and a lost cache write never fails the fetch.
func (f *Fetcher) persist(key string, canon json.RawMessage) {
	blob, err := json.Marshal(Entry{Data: canon, Timestamp: f.now().UnixMilli()})
	if err != nil {
		return
	}
	f.kv.Set(keyPrefix+key, string(blob))
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "marquee-display")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
