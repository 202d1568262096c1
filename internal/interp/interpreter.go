package interp

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/env"
	"github.com/loxlang/golox/internal/token"
)

// RuntimeError is a dynamic-type, arity, undefined-name, or similar error
// raised during evaluation. It is distinguished from the control-flow
// unwind used by return/break (see returnSignal/breakSignal below) and is
// the only thing Interpret ever reports to its caller.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// returnSignal is panicked by a Return statement and recovered exactly once,
// by the Function.Call that is executing the body containing it. It must
// never be allowed to escape past that call boundary.
type returnSignal struct{ value Value }

// breakSignal is panicked by a Break statement and recovered by the
// innermost enclosing While (including desugared for-loops).
type breakSignal struct{}

// Interpreter walks a resolved statement list against an environment chain,
// writing `print` output to Out.
type Interpreter struct {
	Globals     *Env
	environment *Env
	locals      map[ast.Expr]int
	Out         io.Writer
}

// New creates an Interpreter with a fresh global environment pre-populated
// with the clock builtin, the only thing in the standard library surface.
func New(out io.Writer) *Interpreter {
	globals := env.New[Value](0)
	globals.Define("clock", NewNativeFunction("clock", 0, func([]Value) Value {
		return Number(float64(time.Now().UnixNano()) / float64(time.Second))
	}))

	return &Interpreter{
		Globals:     globals,
		environment: globals,
		locals:      make(map[ast.Expr]int),
		Out:         out,
	}
}

// Resolve records that expr's binding is `depth` enclosing environments out
// from wherever it is evaluated. Called by the resolver; read during
// Variable/Assign/This/Super evaluation. Absence of an entry means
// "resolve via the global environment".
func (in *Interpreter) Resolve(expr ast.Expr, depth int) {
	in.locals[expr] = depth
}

// Interpret executes stmts in order against the current environment,
// stopping at (and returning) the first RuntimeError. A caller that wants
// "abort only the current top-level statement, keep the REPL alive" should
// call Interpret once per top-level statement; a caller running a whole
// file calls it once with every statement, which aborts the remaining
// statements on error, matching file-mode semantics.
func (in *Interpreter) Interpret(stmts []ast.Stmt) (err *RuntimeError) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			err = re
		}
	}()

	for _, stmt := range stmts {
		in.execute(stmt)
	}
	return nil
}

func (in *Interpreter) runtimeError(tok token.Token, format string, args ...any) {
	panic(&RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)})
}

// ---- statements ----

func (in *Interpreter) execute(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Expression:
		in.evaluate(s.Expr)
	case *ast.Print:
		fmt.Fprintln(in.Out, in.evaluate(s.Expr).String())
	case *ast.Var:
		var value Value = Nil{}
		if s.Initializer != nil {
			value = in.evaluate(s.Initializer)
		}
		in.environment.Define(s.Name.Lexeme, value)
	case *ast.Block:
		in.executeBlockIn(s.Statements, env.NewEnclosed[Value](in.environment, 0))
	case *ast.If:
		if Truthy(in.evaluate(s.Condition)) {
			in.execute(s.Then)
		} else if s.Else != nil {
			in.execute(s.Else)
		}
	case *ast.While:
		in.executeWhile(s)
	case *ast.Function:
		fn := &Function{Declaration: s, Closure: in.environment}
		in.environment.Define(s.Name.Lexeme, fn)
	case *ast.Class:
		in.executeClass(s)
	case *ast.Return:
		var value Value = Nil{}
		if s.Value != nil {
			value = in.evaluate(s.Value)
		}
		panic(returnSignal{value: value})
	case *ast.Break:
		panic(breakSignal{})
	default:
		panic(fmt.Sprintf("interp: unhandled statement %T", stmt))
	}
}

func (in *Interpreter) executeWhile(s *ast.While) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(breakSignal); ok {
				return
			}
			panic(r)
		}
	}()

	for Truthy(in.evaluate(s.Condition)) {
		in.execute(s.Body)
	}
}

// executeBlockIn runs stmts against frame, restoring the interpreter's
// previous environment on every exit path — normal, Return, Break, or a
// RuntimeError panic — so there is always exactly one active environment,
// even across exceptional unwinds.
func (in *Interpreter) executeBlockIn(stmts []ast.Stmt, frame *Env) {
	previous := in.environment
	in.environment = frame
	defer func() { in.environment = previous }()

	for _, stmt := range stmts {
		in.execute(stmt)
	}
}

func (in *Interpreter) executeClass(s *ast.Class) {
	var superclass *Class
	if s.Superclass != nil {
		sv := in.evaluate(s.Superclass)
		sc, ok := sv.(*Class)
		if !ok {
			in.runtimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	in.environment.Define(s.Name.Lexeme, Nil{})

	classEnv := in.environment
	if s.Superclass != nil {
		classEnv = env.NewEnclosed[Value](in.environment, 1)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Declaration:   m,
			Closure:       classEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	in.environment.Assign(s.Name.Lexeme, class)
}

// ---- expressions ----

func (in *Interpreter) evaluate(expr ast.Expr) Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Token)
	case *ast.Grouping:
		return in.evaluate(e.Expression)
	case *ast.Variable:
		return in.lookupVariable(e.Name, e)
	case *ast.Assign:
		value := in.evaluate(e.Value)
		in.assign(e.Name, e, value)
		return value
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Ternary:
		if Truthy(in.evaluate(e.Condition)) {
			return in.evaluate(e.Then)
		}
		return in.evaluate(e.Else)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Get:
		return in.evalGet(e)
	case *ast.Set:
		return in.evalSet(e)
	case *ast.This:
		return in.lookupVariable(e.Keyword, e)
	case *ast.Super:
		return in.evalSuper(e)
	default:
		panic(fmt.Sprintf("interp: unhandled expression %T", expr))
	}
}

func literalValue(tok token.Token) Value {
	switch tok.Kind {
	case token.True:
		return Boolean(true)
	case token.False:
		return Boolean(false)
	case token.Nil:
		return Nil{}
	case token.String:
		return String(tok.Lexeme)
	case token.Number:
		f, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return Number(f)
	default:
		panic("interp: literal token of kind " + tok.Kind.String())
	}
}

func (in *Interpreter) lookupVariable(name token.Token, expr ast.Expr) Value {
	if distance, ok := in.locals[expr]; ok {
		if v, ok := in.environment.GetAt(distance, name.Lexeme); ok {
			return v
		}
	} else if v, ok := in.Globals.Get(name.Lexeme); ok {
		return v
	}
	in.runtimeError(name, "Undefined variable '%s'.", name.Lexeme)
	panic("unreachable")
}

func (in *Interpreter) assign(name token.Token, expr ast.Expr, value Value) {
	if distance, ok := in.locals[expr]; ok {
		in.environment.AssignAt(distance, name.Lexeme, value)
		return
	}
	if !in.Globals.Assign(name.Lexeme, value) {
		in.runtimeError(name, "Undefined variable '%s'.", name.Lexeme)
	}
}

func (in *Interpreter) evalUnary(e *ast.Unary) Value {
	right := in.evaluate(e.Right)
	switch e.Operator.Kind {
	case token.Bang:
		return Boolean(!Truthy(right))
	case token.Minus:
		n := in.expectNumber(e.Operator, right)
		return -n
	default:
		panic("interp: unhandled unary operator " + e.Operator.Kind.String())
	}
}

func (in *Interpreter) evalLogical(e *ast.Logical) Value {
	left := in.evaluate(e.Left)
	if e.Operator.Kind == token.Or {
		if Truthy(left) {
			return left
		}
	} else { // and
		if !Truthy(left) {
			return left
		}
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) evalBinary(e *ast.Binary) Value {
	left := in.evaluate(e.Left)
	right := in.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.Plus:
		return in.evalPlus(e.Operator, left, right)
	case token.Minus:
		a, b := in.expectNumbers(e.Operator, left, right)
		return a - b
	case token.Star:
		a, b := in.expectNumbers(e.Operator, left, right)
		return a * b
	case token.Slash:
		a, b := in.expectNumbers(e.Operator, left, right)
		if b == 0 {
			in.runtimeError(e.Operator, "Division by zero.")
		}
		return a / b
	case token.Greater:
		a, b := in.expectNumbers(e.Operator, left, right)
		return Boolean(a > b)
	case token.GreaterEqual:
		a, b := in.expectNumbers(e.Operator, left, right)
		return Boolean(a >= b)
	case token.Less:
		a, b := in.expectNumbers(e.Operator, left, right)
		return Boolean(a < b)
	case token.LessEqual:
		a, b := in.expectNumbers(e.Operator, left, right)
		return Boolean(a <= b)
	case token.EqualEqual:
		return Boolean(Equal(left, right))
	case token.BangEqual:
		return Boolean(!Equal(left, right))
	default:
		panic("interp: unhandled binary operator " + e.Operator.Kind.String())
	}
}

// evalPlus implements the overloaded `+`: Number+Number adds, String+String
// concatenates, and a String on either side with a Number on the other
// stringifies the Number and concatenates.
func (in *Interpreter) evalPlus(op token.Token, left, right Value) Value {
	if a, ok := left.(Number); ok {
		if b, ok := right.(Number); ok {
			return a + b
		}
		if b, ok := right.(String); ok {
			return String(a.String()) + b
		}
	}
	if a, ok := left.(String); ok {
		switch b := right.(type) {
		case String:
			return a + b
		case Number:
			return a + String(b.String())
		}
	}
	in.runtimeError(op, "Operands must be two numbers or two strings.")
	panic("unreachable")
}

func (in *Interpreter) evalCall(e *ast.Call) Value {
	callee := in.evaluate(e.Callee)

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = in.evaluate(a)
	}

	fn, ok := callee.(Callable)
	if !ok {
		in.runtimeError(e.Paren, "Can only call functions and classes.")
	}

	if len(args) != fn.Arity() {
		in.runtimeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	return fn.Call(in, args)
}

func (in *Interpreter) evalGet(e *ast.Get) Value {
	obj := in.evaluate(e.Object)
	instance, ok := obj.(*Instance)
	if !ok {
		in.runtimeError(e.Name, "Only instances have properties.")
	}
	v, ok := instance.Get(e.Name.Lexeme)
	if !ok {
		in.runtimeError(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return v
}

func (in *Interpreter) evalSet(e *ast.Set) Value {
	obj := in.evaluate(e.Object)
	instance, ok := obj.(*Instance)
	if !ok {
		in.runtimeError(e.Name, "Only instances have fields.")
	}
	value := in.evaluate(e.Value)
	instance.Set(e.Name.Lexeme, value)
	return value
}

func (in *Interpreter) evalSuper(e *ast.Super) Value {
	distance := in.locals[e]
	superVal, _ := in.environment.GetAt(distance, "super")
	superclass := superVal.(*Class)

	// "this" is always bound one environment closer than "super".
	thisVal, _ := in.environment.GetAt(distance-1, "this")
	instance := thisVal.(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		in.runtimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.bind(instance)
}

func (in *Interpreter) expectNumber(op token.Token, v Value) Number {
	n, ok := v.(Number)
	if !ok {
		in.runtimeError(op, "Operand must be a number.")
	}
	return n
}

func (in *Interpreter) expectNumbers(op token.Token, a, b Value) (Number, Number) {
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if !aok || !bok {
		in.runtimeError(op, "Operands must be numbers.")
	}
	return an, bn
}
