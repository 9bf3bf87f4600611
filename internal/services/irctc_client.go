package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	intconfig "trainbuddy/internal/config"
)

const (
	lookupCacheTTL = 5 * time.Minute
	lookupCacheMax = 1000
	lookupTimeout  = 10 * time.Second
)

type cacheEntry struct {
	data    []byte
	savedAt time.Time
}

// apiCache is a TTL cache with insertion-order eviction past the size cap.
// Matches the provider client's staleness window; no library needed for a
// map plus an order slice.
type apiCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
	order   []string
}

func newAPICache(ttl time.Duration, max int) *apiCache {
	return &apiCache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]cacheEntry),
	}
}

func (c *apiCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.savedAt) > c.ttl {
		delete(c.entries, key)
		c.removeOrder(key)
		return nil, false
	}
	return e.data, true
}

// removeOrder drops a key from the insertion-order slice. Without this an
// expired-then-refreshed key would be listed twice and its fresh entry
// evicted first. Caller holds c.mu.
func (c *apiCache) removeOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *apiCache) put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{data: data, savedAt: time.Now()}

	for len(c.entries) > c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// StatusError preserves the provider's HTTP status so callers can decide
// whether an endpoint-version fallback is worth trying.
type StatusError struct {
	Status int
	URL    string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("provider returned %d for %s", e.Status, e.URL)
}

// IRCTCClient is the shared outbound client for the PNR/train data provider.
// Responses are cached by endpoint+params for 5 minutes, capped at 1000
// entries with oldest-first eviction.
type IRCTCClient struct {
	APIKey   string
	BaseURL  string
	Host     string
	Provider string // "indianrail" or "rapidapi"

	HTTP  *http.Client
	cache *apiCache
}

func NewIRCTCClient(env intconfig.Env) *IRCTCClient {
	return &IRCTCClient{
		APIKey:   env.PNRAPIKey,
		BaseURL:  strings.TrimRight(env.PNRAPIBaseURL, "/"),
		Host:     env.RapidAPIHost,
		Provider: env.PNRAPIProvider,
		HTTP:     &http.Client{Timeout: lookupTimeout},
		cache:    newAPICache(lookupCacheTTL, lookupCacheMax),
	}
}

// Configured reports whether a provider key is present; without one every
// service falls back to mock data.
func (c *IRCTCClient) Configured() bool {
	return c.APIKey != ""
}

// GetJSON performs a cached GET against the provider and decodes the body
// into out.
func (c *IRCTCClient) GetJSON(endpoint string, params map[string]string, out any) error {
	key := cacheKey(endpoint, params)
	if c.cache != nil {
		if data, ok := c.cache.get(key); ok {
			return json.Unmarshal(data, out)
		}
	}

	reqURL := c.BaseURL + endpoint
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		reqURL += "?" + q.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	if c.Provider == "rapidapi" {
		req.Header.Set("x-rapidapi-key", c.APIKey)
		req.Header.Set("x-rapidapi-host", c.Host)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusError{Status: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if c.cache != nil {
		c.cache.put(key, body)
	}
	return json.Unmarshal(body, out)
}

func cacheKey(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(endpoint)
	for _, k := range keys {
		b.WriteByte(':')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// fatalProviderError reports statuses where trying another endpoint version
// cannot help (auth, quota, server down).
func fatalProviderError(err error) bool {
	se, ok := err.(StatusError)
	if !ok {
		return false
	}
	return se.Status == http.StatusUnauthorized ||
		se.Status == http.StatusForbidden ||
		se.Status == http.StatusTooManyRequests ||
		se.Status >= 500
}
