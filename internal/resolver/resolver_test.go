package resolver

import (
	"io"
	"testing"

	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/interp"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/scanner"
	"github.com/stretchr/testify/require"
)

func resolveSource(t *testing.T, source string) *diag.Sink {
	t.Helper()
	sink := &diag.Sink{}
	tokens := scanner.New(source, sink).ScanTokens()
	stmts := parser.New(tokens, sink).Parse()
	require.False(t, sink.HadError(), "unexpected parse error: %v", sink.Diagnostics())

	in := interp.New(io.Discard)
	New(in, sink).Resolve(stmts)
	return sink
}

func TestResolveSelfReferenceInInitializerIsAnError(t *testing.T) {
	sink := resolveSource(t, `{ var a = a; }`)
	require.True(t, sink.HadError())
}

func TestResolveShadowingOwnNameInInitializerIsAnError(t *testing.T) {
	// The "a" on the right refers to the new local (not yet defined), not
	// the outer one it shadows — same trap as the bare self-reference case.
	sink := resolveSource(t, `var a = 1; { var a = a + 1; print a; }`)
	require.True(t, sink.HadError())
}

func TestResolveReferencingOuterNameBeforeShadowingIsFine(t *testing.T) {
	sink := resolveSource(t, `var a = 1; { var b = a + 1; print b; }`)
	require.False(t, sink.HadError())
}

func TestResolveRedeclarationInSameLocalScopeIsAnError(t *testing.T) {
	sink := resolveSource(t, `{ var a = 1; var a = 2; }`)
	require.True(t, sink.HadError())
}

func TestResolveRedeclarationAtGlobalScopeIsAllowed(t *testing.T) {
	sink := resolveSource(t, `var a = 1; var a = 2;`)
	require.False(t, sink.HadError())
}

func TestResolveReturnOutsideFunctionIsAnError(t *testing.T) {
	sink := resolveSource(t, `return 1;`)
	require.True(t, sink.HadError())
}

func TestResolveReturnValueFromInitializerIsAnError(t *testing.T) {
	sink := resolveSource(t, `
		class Thing {
			init() { return 1; }
		}
	`)
	require.True(t, sink.HadError())
}

func TestResolveBareReturnFromInitializerIsFine(t *testing.T) {
	sink := resolveSource(t, `
		class Thing {
			init() { return; }
		}
	`)
	require.False(t, sink.HadError())
}

func TestResolveBreakOutsideLoopIsAnError(t *testing.T) {
	sink := resolveSource(t, `break;`)
	require.True(t, sink.HadError())
}

func TestResolveBreakInsideLoopIsFine(t *testing.T) {
	sink := resolveSource(t, `while (true) { break; }`)
	require.False(t, sink.HadError())
}

func TestResolveBreakInsideFunctionNestedInLoopIsAnError(t *testing.T) {
	// A function body is its own loop-free context even when lexically
	// enclosed by a loop; break must not reach across the call boundary.
	sink := resolveSource(t, `while (true) { fun f() { break; } f(); }`)
	require.True(t, sink.HadError())
}

func TestResolveThisOutsideClassIsAnError(t *testing.T) {
	sink := resolveSource(t, `print this;`)
	require.True(t, sink.HadError())
}

func TestResolveSuperOutsideClassIsAnError(t *testing.T) {
	sink := resolveSource(t, `print super.cost;`)
	require.True(t, sink.HadError())
}

func TestResolveSuperWithoutSuperclassIsAnError(t *testing.T) {
	sink := resolveSource(t, `
		class Solo {
			greet() { return super.greet(); }
		}
	`)
	require.True(t, sink.HadError())
}

func TestResolveClassInheritingFromItselfIsAnError(t *testing.T) {
	sink := resolveSource(t, `class Oops < Oops {}`)
	require.True(t, sink.HadError())
}

func TestResolveWellFormedClassHierarchyIsFine(t *testing.T) {
	sink := resolveSource(t, `
		class Pastry {
			cost() { return 1; }
		}
		class Cake < Pastry {
			cost() { return super.cost() + 1; }
		}
	`)
	require.False(t, sink.HadError())
}
