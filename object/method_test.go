package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMethodFlags(t *testing.T) {
	c := NewClass("Widget")
	tests := []struct {
		name        string
		flags       MethodFlag
		native      bool
		static      bool
		initializer bool
	}{
		{name: "plain", flags: 0},
		{name: "native", flags: FlagNative, native: true},
		{name: "static", flags: FlagStatic, static: true},
		{name: "init", flags: FlagInitializer, initializer: true},
		{name: "nativeStatic", flags: FlagNative | FlagStatic, native: true, static: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := c.Define(tt.name, "()V", tt.flags)
			require.Equal(t, tt.native, m.IsNative())
			require.Equal(t, tt.static, m.IsStatic())
			require.Equal(t, tt.initializer, m.IsInitializer())
		})
	}
}

func TestQualifiedName(t *testing.T) {
	c := NewClass("Object")
	m := c.Define("equals", "(Object)Z", 0)
	require.Equal(t, "Object.equals", m.QualifiedName())
	require.Equal(t, "equals", m.Name())
	require.Equal(t, "(Object)Z", m.Signature())
	require.Equal(t, c, m.Class())
}

func TestBaseClassSeedSet(t *testing.T) {
	base := BaseClass()
	require.Equal(t, "Object", base.Name())

	var eligible []string
	for _, m := range base.Methods() {
		if m.IsNative() || m.IsStatic() || m.IsInitializer() {
			continue
		}
		eligible = append(eligible, m.Name())
	}
	require.Equal(t, []string{"hashCode", "equals", "toString", "finalize"}, eligible)
}

func TestBaseClassIsSingleton(t *testing.T) {
	require.Same(t, BaseClass(), BaseClass())
}
