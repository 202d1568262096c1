// Package resolver implements the static pre-pass that resolves each
// variable use to a scope distance, so the interpreter can look it up by
// walking a fixed number of environment links instead of searching.
package resolver

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/interp"
	"github.com/loxlang/golox/internal/token"
)

type functionType int

const (
	noFunction functionType = iota
	inFunction
	inMethod
	inInitializer
)

type classType int

const (
	noClass classType = iota
	inClass
	inSubclass
)

// scope maps a name declared in the current block to whether its
// initializer has finished evaluating (false = declared, true = defined).
type scope map[string]bool

// Resolver walks a parsed statement list and records, for every variable
// use site, how many enclosing environments to skip at runtime. It also
// diagnoses constructs that are only detectable statically: reading a local
// in its own initializer, returning outside a function, breaking outside a
// loop, redeclaring a name in the same scope, and `this`/`super` misuse.
type Resolver struct {
	interpreter *interp.Interpreter
	sink        *diag.Sink
	scopes      []scope

	currentFunction functionType
	currentClass    classType
	loopDepth       int
}

// New creates a Resolver that records into interpreter and reports into
// sink.
func New(interpreter *interp.Interpreter, sink *diag.Sink) *Resolver {
	return &Resolver{interpreter: interpreter, sink: sink}
}

// Resolve runs the pre-pass over a full program (or, for the REPL, over one
// line's worth of top-level statements against the persistent global
// scope).
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, inFunction)
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Return:
		if r.currentFunction == noFunction {
			r.sink.ReportAt(s.Keyword.Line, "at '"+s.Keyword.Lexeme+"'", "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == inInitializer {
				r.sink.ReportAt(s.Keyword.Line, "at '"+s.Keyword.Lexeme+"'", "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.Break:
		if r.loopDepth == 0 {
			r.sink.ReportAt(s.Keyword.Line, "at '"+s.Keyword.Lexeme+"'", "Can't break outside of a loop.")
		}
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, typ functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ
	enclosingLoopDepth := r.loopDepth
	r.loopDepth = 0

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
	r.loopDepth = enclosingLoopDepth
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = inClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.sink.Report(c.Superclass.Name.Line, "A class can't inherit from itself.")
		} else {
			r.currentClass = inSubclass
			r.resolveExpr(c.Superclass)
		}

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range c.Methods {
		typ := inMethod
		if method.Name.Lexeme == "init" {
			typ = inInitializer
		}
		r.resolveFunction(method, typ)
	}

	r.endScope()
	if c.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.sink.ReportAt(e.Name.Line, "at '"+e.Name.Lexeme+"'",
					"Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Ternary:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		if r.currentClass == noClass {
			r.sink.ReportAt(e.Keyword.Line, "at 'this'", "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Super:
		switch r.currentClass {
		case noClass:
			r.sink.ReportAt(e.Keyword.Line, "at 'super'", "Can't use 'super' outside of a class.")
		case inClass:
			r.sink.ReportAt(e.Keyword.Line, "at 'super'", "Can't use 'super' in a class with no superclass.")
		default:
			r.resolveLocal(e, e.Keyword)
		}
	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }

func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

// declare introduces name into the current scope as "not yet defined". A
// second declaration of the same name in the same (non-global) scope is an
// error; redeclaration at global scope is allowed, so mutually recursive
// top-level functions and REPL re-entry both work.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	current := r.scopes[len(r.scopes)-1]
	if _, ok := current[name.Lexeme]; ok {
		r.sink.ReportAt(name.Line, "at '"+name.Lexeme+"'", "Already a variable with this name in this scope.")
	}
	current[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack innermost-out; the first scope that
// declares name fixes the distance recorded for expr. No match leaves expr
// unresolved, meaning "look it up in globals" at runtime.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.interpreter.Resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}
