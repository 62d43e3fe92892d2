package entity

import (
	"encoding/json"
	"sort"
	"time"
)

// FaviconEntry is one cached icon. Timestamp is Unix milliseconds.
type FaviconEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// FaviconCache maps a domain to its icon data URL.
// It is stored as the opaque favicons field of Settings.
type FaviconCache map[string]FaviconEntry

// ParseFaviconCache decodes the stored form. Anything unreadable yields an
// empty cache.
func ParseFaviconCache(raw json.RawMessage) FaviconCache {
	cache := FaviconCache{}
	if len(raw) == 0 {
		return cache
	}
	if err := json.Unmarshal(raw, &cache); err != nil || cache == nil {
		return FaviconCache{}
	}
	return cache
}

// Lookup returns a fresh entry for domain. An expired entry is dropped.
func (c FaviconCache) Lookup(domain string, now time.Time, maxAge time.Duration) (string, bool) {
	entry, ok := c[domain]
	if !ok {
		return "", false
	}
	if now.Sub(time.UnixMilli(entry.Timestamp)) >= maxAge {
		delete(c, domain)
		return "", false
	}
	return entry.URL, true
}

// Put stores dataURL for domain and prunes the cache.
func (c FaviconCache) Put(domain, dataURL string, now time.Time, maxAge time.Duration, maxEntries int) {
	if domain == "" || dataURL == "" {
		return
	}
	c[domain] = FaviconEntry{URL: dataURL, Timestamp: now.UnixMilli()}
	c.Prune(now, maxAge, maxEntries)
}

// Prune drops expired entries, then the oldest ones above maxEntries.
func (c FaviconCache) Prune(now time.Time, maxAge time.Duration, maxEntries int) {
	for domain, entry := range c {
		if now.Sub(time.UnixMilli(entry.Timestamp)) >= maxAge {
			delete(c, domain)
		}
	}
	if maxEntries <= 0 || len(c) <= maxEntries {
		return
	}

	domains := make([]string, 0, len(c))
	for domain := range c {
		domains = append(domains, domain)
	}
	sort.Slice(domains, func(i, j int) bool {
		ti, tj := c[domains[i]].Timestamp, c[domains[j]].Timestamp
		if ti != tj {
			return ti < tj
		}
		return domains[i] < domains[j]
	})
	for _, domain := range domains[:len(domains)-maxEntries] {
		delete(c, domain)
	}
}

// Marshal returns the stored form.
func (c FaviconCache) Marshal() json.RawMessage {
	data, err := json.Marshal(map[string]FaviconEntry(c))
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
