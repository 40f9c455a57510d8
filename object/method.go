package object

import (
	"fmt"
	"sync"
)

// MethodFlag describes properties of a method declaration that compile
// scheduling cares about.
type MethodFlag uint8

const (
	// FlagNative marks a method implemented outside managed code.
	FlagNative MethodFlag = 1 << iota
	// FlagStatic marks a method with no receiver.
	FlagStatic
	// FlagInitializer marks a constructor or class initializer.
	FlagInitializer
)

// Method is an opaque handle identifying one function in the managed object
// model. Handles are immutable after construction and safe for concurrent use.
type Method struct {
	class     *Class
	name      string
	signature string
	flags     MethodFlag
}

// Name returns the method's simple name.
func (m *Method) Name() string { return m.name }

// Signature returns the method's type signature string.
func (m *Method) Signature() string { return m.signature }

// Class returns the class that declares this method.
func (m *Method) Class() *Class { return m.class }

// QualifiedName returns the class-qualified name, e.g. "Object.equals".
func (m *Method) QualifiedName() string {
	if m.class == nil {
		return m.name
	}
	return fmt.Sprintf("%s.%s", m.class.name, m.name)
}

// IsNative reports whether the method is implemented outside managed code.
func (m *Method) IsNative() bool { return m.flags&FlagNative != 0 }

// IsStatic reports whether the method has no receiver.
func (m *Method) IsStatic() bool { return m.flags&FlagStatic != 0 }

// IsInitializer reports whether the method is a constructor or initializer.
func (m *Method) IsInitializer() bool { return m.flags&FlagInitializer != 0 }

// Class is a named set of method declarations.
type Class struct {
	name    string
	methods []*Method
}

// NewClass creates an empty class with the given name.
func NewClass(name string) *Class {
	return &Class{name: name}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Define declares a method on the class and returns its handle.
func (c *Class) Define(name, signature string, flags MethodFlag) *Method {
	m := &Method{class: c, name: name, signature: signature, flags: flags}
	c.methods = append(c.methods, m)
	return m
}

// Methods returns the class's method declarations in declaration order.
// The returned slice must not be modified.
func (c *Class) Methods() []*Method {
	return c.methods
}

var (
	baseClassOnce sync.Once
	baseClass     *Class
)

// BaseClass returns the base object type of the managed runtime. Its
// non-native, non-static, non-initializer methods form the seed set that
// the bootstrap phase compiles.
func BaseClass() *Class {
	baseClassOnce.Do(func() {
		c := NewClass("Object")
		c.Define("<init>", "()V", FlagInitializer)
		c.Define("registerNatives", "()V", FlagNative|FlagStatic)
		c.Define("getClass", "()Class", FlagNative)
		c.Define("hashCode", "()I", 0)
		c.Define("equals", "(Object)Z", 0)
		c.Define("clone", "()Object", FlagNative)
		c.Define("toString", "()String", 0)
		c.Define("notify", "()V", FlagNative)
		c.Define("notifyAll", "()V", FlagNative)
		c.Define("wait", "(J)V", FlagNative)
		c.Define("finalize", "()V", 0)
		baseClass = c
	})
	return baseClass
}
