// Package observability provides hooks for logging and metrics.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about lockfile parsing and dependency
// resolution. Library packages never log; they emit hooks.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolveHooks(&myResolveHooks{})
//	    observability.SetParseHooks(&myParseHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Parse().OnParseStart(ctx, "npm", dir)
//	// ... do parsing ...
//	observability.Parse().OnParseComplete(ctx, "npm", packages, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// Request identifies the dependency a resolve event is about. From is the
// display name of the requesting package.
type Request struct {
	From      string
	Name      string
	Specifier string
	Kind      string
}

// ResolveHooks receives events from the candidate resolver.
type ResolveHooks interface {
	// OnPeerResolved records which heuristic settled a peer dependency.
	OnPeerResolved(req Request, rule string)

	// OnPeerUnresolved records a peer dependency left without an edge.
	OnPeerUnresolved(req Request, candidates int)

	// OnOptionalDropped records an optional dependency with no candidate.
	OnOptionalDropped(req Request)
}

// =============================================================================
// Parse Hooks
// =============================================================================

// ParseHooks receives events from lockfile parsing.
type ParseHooks interface {
	OnParseStart(ctx context.Context, format, dir string)
	OnParseComplete(ctx context.Context, format string, packages, edges int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnPeerResolved(Request, string) {}
func (NoopResolveHooks) OnPeerUnresolved(Request, int)  {}
func (NoopResolveHooks) OnOptionalDropped(Request)      {}

// NoopParseHooks is a no-op implementation of ParseHooks.
type NoopParseHooks struct{}

func (NoopParseHooks) OnParseStart(context.Context, string, string) {}
func (NoopParseHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks ResolveHooks = NoopResolveHooks{}
	parseHooks   ParseHooks   = NoopParseHooks{}
	hooksMu      sync.RWMutex
)

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup before any parsing.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetParseHooks registers custom parse hooks.
// This should be called once at application startup before any parsing.
func SetParseHooks(h ParseHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		parseHooks = h
	}
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Parse returns the registered parse hooks.
func Parse() ParseHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return parseHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolveHooks = NoopResolveHooks{}
	parseHooks = NoopParseHooks{}
}
