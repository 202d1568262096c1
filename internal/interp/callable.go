package interp

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/env"
)

// Env is the environment chain instantiated for Lox's runtime value type.
type Env = env.Environment[Value]

// Callable is anything that can appear as the callee of a Call expression:
// user-defined functions/methods, classes (as constructors), and native
// builtins like clock.
type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) Value
}

// Function is a user-defined function or method value: a declaration paired
// with the environment live at its definition (its closure).
type Function struct {
	Declaration   *ast.Function
	Closure       *Env
	IsInitializer bool
}

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme) }

func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Call executes the function body in a fresh environment enclosed by its
// closure, with parameters bound to args. Return unwinds out via panic, and
// this is exactly where that unwind is consumed: a Return signal must never
// escape past the call boundary that produced it.
func (f *Function) Call(in *Interpreter, args []Value) (result Value) {
	frame := env.NewEnclosed[Value](f.Closure, len(f.Declaration.Params))
	for i, param := range f.Declaration.Params {
		frame.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			ret, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.IsInitializer {
				result, _ = f.Closure.GetAt(0, "this")
				return
			}
			result = ret.value
		}
	}()

	in.executeBlockIn(f.Declaration.Body, frame)

	if f.IsInitializer {
		result, _ = f.Closure.GetAt(0, "this")
		return result
	}
	return Nil{}
}

// bind returns a copy of f whose closure is a new frame defining "this" as
// instance, so each call to a bound method gets its own receiver binding.
func (f *Function) bind(instance *Instance) *Function {
	frame := env.NewEnclosed[Value](f.Closure, 1)
	frame.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: frame, IsInitializer: f.IsInitializer}
}

// Class is a class value: identity, name, optional superclass, and its own
// (non-inherited) methods, each still sharing the environment active at
// class declaration.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) String() string { return c.Name }

// FindMethod looks up name in this class's own methods, then its ancestors.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity forwards to the "init" method's arity, or 0 if the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance, running its "init" method (if any)
// against the supplied constructor arguments.
func (c *Class) Call(in *Interpreter, args []Value) Value {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		init.bind(instance).Call(in, args)
	}
	return instance
}

// Instance is a class instance: identity, its class, and a mutable field
// table. Field lookup falls back to a bound method when no field exists.
type Instance struct {
	Class  *Class
	fields *swiss.Map[string, Value]
}

// NewInstance allocates an empty instance of class c.
func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, fields: swiss.NewMap[string, Value](4)}
}

func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get reads a field, falling back to a bound method. ok is false if neither
// exists (the caller raises "Undefined property" with the requesting
// token's line).
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.fields.Get(name); ok {
		return v, true
	}
	if method := i.Class.FindMethod(name); method != nil {
		return method.bind(i), true
	}
	return nil, false
}

// Set writes a field, creating it if absent.
func (i *Instance) Set(name string, value Value) {
	i.fields.Put(name, value)
}

// NativeFunction wraps a Go function as a Lox callable (used for builtins
// like clock).
type NativeFunction struct {
	name string
	n    int
	fn   func(args []Value) Value
}

func NewNativeFunction(name string, arity int, fn func(args []Value) Value) *NativeFunction {
	return &NativeFunction{name: name, n: arity, fn: fn}
}

func (n *NativeFunction) String() string { return fmt.Sprintf("<native fn %s>", n.name) }
func (n *NativeFunction) Arity() int     { return n.n }
func (n *NativeFunction) Call(_ *Interpreter, args []Value) Value { return n.fn(args) }
