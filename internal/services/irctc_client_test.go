package services

import (
	"testing"
	"time"
)

func ageEntry(c *apiCache, key string, by time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[key]
	e.savedAt = e.savedAt.Add(-by)
	c.entries[key] = e
}

func TestAPICacheRefreshedKeyKeepsNewPosition(t *testing.T) {
	c := newAPICache(time.Minute, 3)

	c.put("a", []byte("stale"))
	ageEntry(c, "a", 2*time.Minute)
	if _, ok := c.get("a"); ok {
		t.Fatal("entry past TTL must miss")
	}

	// refill past the cap; the refreshed "a" is the newest entry and the
	// oldest live key ("b") must be the one evicted
	c.put("b", []byte("2"))
	c.put("c", []byte("3"))
	c.put("a", []byte("fresh"))
	c.put("d", []byte("4"))

	if data, ok := c.get("a"); !ok || string(data) != "fresh" {
		t.Fatalf("refreshed entry lost: ok=%v data=%q", ok, data)
	}
	if _, ok := c.get("b"); ok {
		t.Fatal("oldest live entry must be evicted, not the refreshed one")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) != len(c.entries) {
		t.Fatalf("order/entries diverged: %d vs %d", len(c.order), len(c.entries))
	}
}
