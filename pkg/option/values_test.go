package option

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry("")
	decls := []Decl{
		{Name: "colors", Type: TypeBool, Default: true},
		{Name: "loop-max", Type: TypeInt, Default: 100},
		{Name: "speculation-delay", Type: TypeFloat, Default: 1.0},
		{Name: "bin-name", Type: TypeString, Default: "./anvil"},
		{Name: "workdir", Type: TypeDir, Default: "/tmp/.anvil.d"},
		{Name: "level", Alias: "l", Type: TypeEnum, Choices: []string{"info", "debug"}, Default: "info"},
		{Name: "ignore", Type: TypeList, MemberType: TypeString, Default: []string{".*/"}},
		{Name: "headers", Type: TypeMap, Default: map[string]string{}},
		{Name: "plugins", Type: TypeList, MemberType: TypeString},
		{
			Name: "spec-file", Type: TypeList, MemberType: TypeString,
			RemovalVersion: "2.1.0.dev0", RemovalHint: "Use --spec-files",
		},
	}
	for _, d := range decls {
		require.NoError(t, reg.Register(d))
	}
	return reg
}

func TestValuesSeededFromDefaults(t *testing.T) {
	v := NewValues(testRegistry(t))

	assert.True(t, v.Bool("colors"))
	assert.Equal(t, 100, v.Int("loop-max"))
	assert.Equal(t, 1.0, v.Float("speculation-delay"))
	assert.Equal(t, "./anvil", v.Str("bin-name"))
	assert.Equal(t, "/tmp/.anvil.d", v.Str("workdir"))
	assert.Equal(t, "info", v.Str("level"))
	assert.Equal(t, []string{".*/"}, v.StrList("ignore"))
	assert.Empty(t, v.StrMap("headers"))

	// nil default means the zero value for the type
	assert.Empty(t, v.StrList("plugins"))
}

func TestSetParsesLiterals(t *testing.T) {
	ctx := context.Background()
	v := NewValues(testRegistry(t))

	tests := []struct {
		name   string
		option string
		raw    string
		check  func(t *testing.T)
	}{
		{
			name: "bool", option: "colors", raw: "false",
			check: func(t *testing.T) { assert.False(t, v.Bool("colors")) },
		},
		{
			name: "int", option: "loop-max", raw: "42",
			check: func(t *testing.T) { assert.Equal(t, 42, v.Int("loop-max")) },
		},
		{
			name: "float", option: "speculation-delay", raw: "2.5",
			check: func(t *testing.T) { assert.Equal(t, 2.5, v.Float("speculation-delay")) },
		},
		{
			name: "enum_member", option: "level", raw: "debug",
			check: func(t *testing.T) { assert.Equal(t, "debug", v.Str("level")) },
		},
		{
			name: "enum_via_alias", option: "l", raw: "info",
			check: func(t *testing.T) { assert.Equal(t, "info", v.Str("level")) },
		},
		{
			name: "list", option: "ignore", raw: ".git/, dist/",
			check: func(t *testing.T) { assert.Equal(t, []string{".git/", "dist/"}, v.StrList("ignore")) },
		},
		{
			name: "map", option: "headers", raw: "auth=token, trace=on",
			check: func(t *testing.T) {
				assert.Equal(t, map[string]string{"auth": "token", "trace": "on"}, v.StrMap("headers"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, v.Set(ctx, tt.option, tt.raw))
			tt.check(t)
		})
	}
}

func TestSetRejectsBadLiterals(t *testing.T) {
	ctx := context.Background()
	v := NewValues(testRegistry(t))

	require.Error(t, v.Set(ctx, "colors", "maybe"))
	require.Error(t, v.Set(ctx, "loop-max", "many"))
	require.Error(t, v.Set(ctx, "headers", "not-a-pair"))
	require.Error(t, v.Set(ctx, "no-such-option", "1"))

	err := v.Set(ctx, "level", "verbose")
	var enumErr *InvalidEnumValueError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, "--level", enumErr.Enum)
	assert.Equal(t, "verbose", enumErr.Value)
	assert.Equal(t, []string{"info", "debug"}, enumErr.Legal)
}

func TestSetValueCoercesDecodedShapes(t *testing.T) {
	ctx := context.Background()
	v := NewValues(testRegistry(t))

	require.NoError(t, v.SetValue(ctx, "colors", false))
	require.NoError(t, v.SetValue(ctx, "loop-max", float64(7))) // JSON numbers decode as float64
	require.NoError(t, v.SetValue(ctx, "speculation-delay", 3))
	require.NoError(t, v.SetValue(ctx, "ignore", []any{"a/", "b/"}))
	require.NoError(t, v.SetValue(ctx, "headers", map[string]any{"k": "v"}))

	assert.False(t, v.Bool("colors"))
	assert.Equal(t, 7, v.Int("loop-max"))
	assert.Equal(t, 3.0, v.Float("speculation-delay"))
	assert.Equal(t, []string{"a/", "b/"}, v.StrList("ignore"))
	assert.Equal(t, map[string]string{"k": "v"}, v.StrMap("headers"))

	require.Error(t, v.SetValue(ctx, "loop-max", 1.5))
	require.Error(t, v.SetValue(ctx, "ignore", []any{1, 2}))
	require.Error(t, v.SetValue(ctx, "colors", "true"))
}

func TestGettersReturnCopies(t *testing.T) {
	v := NewValues(testRegistry(t))

	list := v.StrList("ignore")
	list[0] = "mutated"
	assert.Equal(t, []string{".*/"}, v.StrList("ignore"))

	m := v.StrMap("headers")
	m["injected"] = "x"
	assert.Empty(t, v.StrMap("headers"))
}

func TestDeprecatedOptionWarnsOnSet(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	v := NewValues(testRegistry(t))
	require.NoError(t, v.Set(ctx, "spec-file", "specs.txt"))

	assert.Contains(t, buf.String(), "--spec-file")
	assert.Contains(t, buf.String(), "Use --spec-files")
	assert.Contains(t, buf.String(), "2.1.0.dev0")

	// deprecation is a warning, the value still applies
	assert.Equal(t, []string{"specs.txt"}, v.StrList("spec-file"))
}

func TestGetterPanicsOnSchemaMisuse(t *testing.T) {
	v := NewValues(testRegistry(t))

	assert.Panics(t, func() { v.Bool("no-such-option") })
	assert.Panics(t, func() { v.Int("colors") })
	assert.Panics(t, func() { v.Str("loop-max") })
}
