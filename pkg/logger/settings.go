package logger

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Settings is the process-wide request/response logging configuration.
// It holds a global on/off switch plus per-endpoint overrides keyed by
// URI pattern. A pattern is either an exact URI ("/api/events") or a
// trailing-wildcard prefix ("/api/events/*"); the wildcard form matches
// URIs that continue past the prefix, so "/api/events/1" matches but the
// bare "/api/events" does not.
//
// Settings is safe for concurrent readers and writers; the body-logging
// middleware consults it once per request while the admin API mutates it
// at runtime.
type Settings struct {
	global atomic.Bool

	mu        sync.RWMutex
	endpoints map[string]bool
}

// NewSettings seeds the store with the configured global flag and any
// endpoint overrides from configuration.
func NewSettings(globalEnabled bool, endpoints map[string]bool) *Settings {
	s := &Settings{endpoints: make(map[string]bool, len(endpoints))}
	s.global.Store(globalEnabled)
	for pattern, enabled := range endpoints {
		s.endpoints[pattern] = enabled
	}
	return s
}

// GlobalEnabled reports the global flag.
func (s *Settings) GlobalEnabled() bool {
	return s.global.Load()
}

// SetGlobalEnabled toggles logging for every URI without an override.
func (s *Settings) SetGlobalEnabled(enabled bool) {
	s.global.Store(enabled)
}

// SetEndpointEnabled installs or replaces an endpoint override.
func (s *Settings) SetEndpointEnabled(pattern string, enabled bool) {
	s.mu.Lock()
	s.endpoints[pattern] = enabled
	s.mu.Unlock()
}

// Reset restores defaults: global logging on, no endpoint overrides.
func (s *Settings) Reset() {
	s.mu.Lock()
	s.endpoints = make(map[string]bool)
	s.mu.Unlock()
	s.global.Store(true)
}

// EndpointSettings returns a copy of the current overrides.
func (s *Settings) EndpointSettings() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.endpoints))
	for pattern, enabled := range s.endpoints {
		out[pattern] = enabled
	}
	return out
}

// EnabledForURI resolves whether request/response bodies should be logged
// for the given URI. An exact override wins, then the first matching
// wildcard override, then the global flag.
func (s *Settings) EnabledForURI(uri string) bool {
	s.mu.RLock()
	if enabled, ok := s.endpoints[uri]; ok {
		s.mu.RUnlock()
		return enabled
	}
	for pattern, enabled := range s.endpoints {
		if !strings.HasSuffix(pattern, "/*") {
			continue
		}
		// "/api/events/*" keeps the trailing slash in the prefix, so the
		// bare "/api/events" never matches the wildcard form.
		prefix := pattern[:len(pattern)-1]
		if strings.HasPrefix(uri, prefix) {
			s.mu.RUnlock()
			return enabled
		}
	}
	s.mu.RUnlock()

	return s.global.Load()
}
