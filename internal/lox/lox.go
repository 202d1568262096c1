// Package lox wires the scanner, parser, resolver, and interpreter into a
// single Session.Run entry point, which the CLI uses both for running a
// whole file and for running one REPL line against a persistent session.
package lox

import (
	"io"

	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/interp"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/resolver"
	"github.com/loxlang/golox/internal/scanner"
)

// Session holds the state that must persist across REPL lines: the
// interpreter's global environment and the locals map the resolver feeds
// it. A fresh Sink is used per line so one line's errors never contaminate
// the next.
type Session struct {
	interpreter *interp.Interpreter
}

// NewSession creates a Session whose `print` output goes to out.
func NewSession(out io.Writer) *Session {
	return &Session{interpreter: interp.New(out)}
}

// Result reports what happened running a chunk of source: whether the
// static stages (scan/parse/resolve) found a problem, and whether the
// interpreter raised one.
type Result struct {
	Sink    *diag.Sink
	Runtime *interp.RuntimeError
}

// HadStaticError reports whether scanning, parsing, or resolution failed.
func (r Result) HadStaticError() bool { return r.Sink.HadError() }

// HadRuntimeError reports whether the interpreter raised a RuntimeError.
func (r Result) HadRuntimeError() bool { return r.Runtime != nil }

// Run scans, parses, resolves, and (absent any static error) interprets
// source as a complete program against s's persistent environment. Static
// errors short-circuit before interpretation ever runs, matching file-mode
// semantics: a program that fails to compile never partially executes.
func (s *Session) Run(source string) Result {
	sink := &diag.Sink{}

	scan := scanner.New(source, sink)
	tokens := scan.ScanTokens()

	p := parser.New(tokens, sink)
	stmts := p.Parse()

	if sink.HadError() {
		return Result{Sink: sink}
	}

	res := resolver.New(s.interpreter, sink)
	res.Resolve(stmts)

	if sink.HadError() {
		return Result{Sink: sink}
	}

	runtimeErr := s.interpreter.Interpret(stmts)
	return Result{Sink: sink, Runtime: runtimeErr}
}
