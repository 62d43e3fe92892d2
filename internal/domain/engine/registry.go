package engine

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/startpage/internal/domain/entity"
)

// Registry errors.
var (
	ErrNoEngines       = errors.New("no search engines are configured")
	ErrNoSuggestEngine = errors.New("no search engine supports suggestions")
	ErrUnknownEngine   = errors.New("unknown search engine")
)

// Registry is the live set of search engines: builtins minus tombstoned
// nicknames, overlaid with custom engines. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	builtins     map[string]entity.Engine
	builtinOrder []string
	custom       map[string]entity.Engine
	deleted      map[string]struct{}

	live  map[string]entity.Engine
	order []string

	defaultSearch  string
	defaultSuggest string
	fallback       string
}

// Option configures a Registry.
type Option func(*Registry)

// WithFallbackNickname overrides the nickname tried after a stale default.
func WithFallbackNickname(nickname string) Option {
	return func(r *Registry) {
		if n := entity.NormalizeNickname(nickname); n != "" {
			r.fallback = n
		}
	}
}

// NewRegistry creates a registry from builtins, custom engines and tombstones.
func NewRegistry(builtins []entity.Engine, custom map[string]entity.Engine, deleted []string, opts ...Option) *Registry {
	r := &Registry{
		builtins: make(map[string]entity.Engine, len(builtins)),
		custom:   make(map[string]entity.Engine, len(custom)),
		deleted:  make(map[string]struct{}, len(deleted)),
		fallback: FallbackNickname,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, e := range builtins {
		n := entity.NormalizeNickname(e.Nickname)
		if _, dup := r.builtins[n]; dup {
			continue
		}
		e.Nickname = n
		r.builtins[n] = e
		r.builtinOrder = append(r.builtinOrder, n)
	}
	for key, e := range custom {
		n := entity.NormalizeNickname(e.Nickname)
		if n == "" {
			n = entity.NormalizeNickname(key)
		}
		e.Nickname = n
		if upgraded, ok := UpgradeSuggestURL(e.SuggestURLTemplate); ok {
			e.SuggestURLTemplate = upgraded
		} else {
			e.SuggestURLTemplate = ""
		}
		r.custom[n] = e
	}
	for _, n := range deleted {
		if n = entity.NormalizeNickname(n); n != "" {
			r.deleted[n] = struct{}{}
		}
	}

	r.rebuild()
	return r
}

// FromSettings builds the registry for persisted settings.
func FromSettings(builtins []entity.Engine, s *entity.Settings, opts ...Option) *Registry {
	if s == nil {
		return NewRegistry(builtins, nil, nil, opts...)
	}
	r := NewRegistry(builtins, s.CustomEngines, s.DeletedBuiltins, opts...)
	r.defaultSearch = entity.NormalizeNickname(s.DefaultSearchEngine)
	r.defaultSuggest = entity.NormalizeNickname(s.DefaultSuggestEngine)
	return r
}

// rebuild recomputes the live map. Caller holds the write lock.
func (r *Registry) rebuild() {
	live := make(map[string]entity.Engine, len(r.builtins)+len(r.custom))
	order := make([]string, 0, len(r.builtins)+len(r.custom))

	for _, n := range r.builtinOrder {
		if _, gone := r.deleted[n]; gone {
			continue
		}
		live[n] = r.builtins[n]
		order = append(order, n)
	}

	customKeys := make([]string, 0, len(r.custom))
	for n := range r.custom {
		customKeys = append(customKeys, n)
	}
	sort.Strings(customKeys)
	for _, n := range customKeys {
		if _, exists := live[n]; !exists {
			order = append(order, n)
		}
		live[n] = r.custom[n]
	}

	r.live = live
	r.order = order
}

// Resolve looks up a live engine by nickname, ignoring case.
func (r *Registry) Resolve(nickname string) (entity.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.live[entity.NormalizeNickname(nickname)]
	return e, ok
}

// Engines returns the live engines in display order.
func (r *Registry) Engines() []entity.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Engine, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.live[n])
	}
	return out
}

// Len returns the number of live engines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

// IsBuiltin reports whether nickname ships as a builtin engine.
func (r *Registry) IsBuiltin(nickname string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builtins[entity.NormalizeNickname(nickname)]
	return ok
}

// DefaultSearchEngine resolves the default search engine nickname:
// stored value, then the fallback nickname, then the first live engine.
func (r *Registry) DefaultSearchEngine() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveDefault(r.defaultSearch, func(entity.Engine) bool { return true }, ErrNoEngines)
}

// DefaultSuggestEngine is DefaultSearchEngine restricted to engines with a
// suggest URL at every step.
func (r *Registry) DefaultSuggestEngine() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.live) == 0 {
		return "", ErrNoEngines
	}
	return r.resolveDefault(r.defaultSuggest, entity.Engine.HasSuggest, ErrNoSuggestEngine)
}

func (r *Registry) resolveDefault(stored string, accept func(entity.Engine) bool, notFound error) (string, error) {
	for _, n := range []string{stored, r.fallback} {
		if n == "" {
			continue
		}
		if e, ok := r.live[n]; ok && accept(e) {
			return n, nil
		}
	}
	for _, n := range r.order {
		if accept(r.live[n]) {
			return n, nil
		}
	}
	return "", notFound
}

// SetDefaultSearchEngine stores the default search engine.
func (r *Registry) SetDefaultSearchEngine(nickname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := entity.NormalizeNickname(nickname)
	if _, ok := r.live[n]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEngine, nickname)
	}
	r.defaultSearch = n
	return nil
}

// SetDefaultSuggestEngine stores the default suggestion engine.
func (r *Registry) SetDefaultSuggestEngine(nickname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := entity.NormalizeNickname(nickname)
	e, ok := r.live[n]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEngine, nickname)
	}
	if !e.HasSuggest() {
		return fmt.Errorf("%w: %q has no suggest URL", ErrNoSuggestEngine, nickname)
	}
	r.defaultSuggest = n
	return nil
}

// Upsert adds or edits an engine. previousNickname is the engine's nickname
// before the edit, or empty when adding. A rename drops the old key and
// tombstones it when it was a builtin. The registry is untouched on error.
func (r *Registry) Upsert(record entity.Engine, previousNickname string) error {
	record.Nickname = entity.NormalizeNickname(record.Nickname)
	prev := entity.NormalizeNickname(previousNickname)

	if err := record.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev != "" {
		if _, ok := r.live[prev]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownEngine, previousNickname)
		}
	}
	if _, taken := r.live[record.Nickname]; taken && record.Nickname != prev {
		return fmt.Errorf("%w: %q", entity.ErrDuplicateNickname, record.Nickname)
	}

	if prev != "" && prev != record.Nickname {
		delete(r.custom, prev)
		if _, builtin := r.builtins[prev]; builtin {
			r.deleted[prev] = struct{}{}
		}
	}

	r.custom[record.Nickname] = record
	delete(r.deleted, record.Nickname)
	r.rebuild()
	return nil
}

// Remove deletes a live engine, tombstoning it when it was a builtin.
func (r *Registry) Remove(nickname string) error {
	n := entity.NormalizeNickname(nickname)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[n]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEngine, nickname)
	}
	delete(r.custom, n)
	if _, builtin := r.builtins[n]; builtin {
		r.deleted[n] = struct{}{}
	}
	r.rebuild()
	return nil
}

// Deleted returns the tombstoned builtin nicknames, sorted.
func (r *Registry) Deleted() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.deleted))
	for n := range r.deleted {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ApplyTo writes the registry's persistent state into s.
func (r *Registry) ApplyTo(s *entity.Settings) {
	r.mu.RLock()
	custom := make(map[string]entity.Engine, len(r.custom))
	for n, e := range r.custom {
		custom[n] = e
	}
	defaultSearch, defaultSuggest := r.defaultSearch, r.defaultSuggest
	r.mu.RUnlock()

	s.CustomEngines = custom
	s.DeletedBuiltins = r.Deleted()
	s.DefaultSearchEngine = defaultSearch
	s.DefaultSuggestEngine = defaultSuggest
}

// SuggestHosts returns the hostnames of every live suggest URL.
func (r *Registry) SuggestHosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var hosts []string
	for _, n := range r.order {
		h := hostOf(r.live[n].SuggestURLTemplate)
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		hosts = append(hosts, h)
	}
	return hosts
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
