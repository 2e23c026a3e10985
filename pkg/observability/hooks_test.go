package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	req := Request{From: "app", Name: "react", Specifier: "^18", Kind: "PeerDependency"}

	// Resolve hooks
	r := NoopResolveHooks{}
	r.OnPeerResolved(req, "semver")
	r.OnPeerUnresolved(req, 2)
	r.OnOptionalDropped(req)

	// Parse hooks
	p := NoopParseHooks{}
	p.OnParseStart(ctx, "npm", ".")
	p.OnParseComplete(ctx, "npm", 10, 20, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := Parse().(NoopParseHooks); !ok {
		t.Error("Parse() should return NoopParseHooks by default")
	}

	// Set custom hooks
	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customParse := &testParseHooks{}
	SetParseHooks(customParse)
	if Parse() != customParse {
		t.Error("SetParseHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Reset() should restore NoopResolveHooks")
	}
	if _, ok := Parse().(NoopParseHooks); !ok {
		t.Error("Reset() should restore NoopParseHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testResolveHooks{}
	SetResolveHooks(custom)

	// Setting nil should be ignored
	SetResolveHooks(nil)

	if Resolve() != custom {
		t.Error("SetResolveHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testResolveHooks struct{ NoopResolveHooks }
type testParseHooks struct{ NoopParseHooks }
