package proxy

import (
	"context"
	"strings"
	"sync"
)

// HostSource reports the hosts of the live registry's suggest URLs.
type HostSource func(ctx context.Context) []string

// AllowList decides which upstream hosts /suggest may call: the configured
// hosts plus every host currently used by an engine's suggest URL.
type AllowList struct {
	mu         sync.RWMutex
	configured map[string]struct{}
	engines    HostSource
}

// NewAllowList creates an allow-list. engines may be nil.
func NewAllowList(configured []string, engines HostSource) *AllowList {
	a := &AllowList{engines: engines}
	a.SetConfigured(configured)
	return a
}

// SetConfigured replaces the configured hosts, e.g. after a config reload.
func (a *AllowList) SetConfigured(hosts []string) {
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if h = normalizeHost(h); h != "" {
			set[h] = struct{}{}
		}
	}

	a.mu.Lock()
	a.configured = set
	a.mu.Unlock()
}

// Allowed reports whether host may be contacted.
func (a *AllowList) Allowed(ctx context.Context, host string) bool {
	host = normalizeHost(host)
	if host == "" {
		return false
	}

	a.mu.RLock()
	_, ok := a.configured[host]
	a.mu.RUnlock()
	if ok {
		return true
	}

	if a.engines == nil {
		return false
	}
	for _, h := range a.engines(ctx) {
		if normalizeHost(h) == host {
			return true
		}
	}
	return false
}

func normalizeHost(h string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
}
