package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsMalformedDecls(t *testing.T) {
	tests := []struct {
		name        string
		decl        Decl
		errContains string
	}{
		{
			name:        "empty_name",
			decl:        Decl{Type: TypeBool},
			errContains: "empty name",
		},
		{
			name:        "not_kebab_case",
			decl:        Decl{Name: "RemoteExecution", Type: TypeBool},
			errContains: "kebab-case",
		},
		{
			name:        "multi_letter_alias",
			decl:        Decl{Name: "level", Alias: "lv", Type: TypeString},
			errContains: "single letter",
		},
		{
			name:        "missing_type",
			decl:        Decl{Name: "level"},
			errContains: "invalid Type",
		},
		{
			name:        "list_without_member_type",
			decl:        Decl{Name: "tags", Type: TypeList},
			errContains: "MemberType",
		},
		{
			name:        "enum_without_choices",
			decl:        Decl{Name: "mode", Type: TypeEnum, Default: "fast"},
			errContains: "Choices",
		},
		{
			name:        "enum_without_default",
			decl:        Decl{Name: "mode", Type: TypeEnum, Choices: []string{"fast", "slow"}},
			errContains: "Default",
		},
		{
			name: "enum_default_not_a_member",
			decl: Decl{
				Name: "mode", Type: TypeEnum,
				Choices: []string{"fast", "slow"}, Default: "medium",
			},
			errContains: "not a member",
		},
		{
			name: "choice_default_not_a_member",
			decl: Decl{
				Name: "strategy", Type: TypeString,
				Choices: []string{"remote_first", "local_first", "none"}, Default: "local",
			},
			errContains: "not a member",
		},
		{
			name:        "choices_on_bool",
			decl:        Decl{Name: "loop", Type: TypeBool, Choices: []string{"true"}},
			errContains: "only valid on enum and string",
		},
		{
			name:        "default_type_mismatch",
			decl:        Decl{Name: "loop-max", Type: TypeInt, Default: "many"},
			errContains: "not an int",
		},
		{
			name:        "deprecated_without_hint",
			decl:        Decl{Name: "spec-file", Type: TypeBool, RemovalVersion: "2.1.0"},
			errContains: "RemovalHint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry("")
			err := reg.Register(tt.decl)
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Contains(t, schemaErr.Error(), tt.errContains)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry("")
	require.NoError(t, reg.Register(Decl{Name: "level", Alias: "l", Type: TypeString}))

	err := reg.Register(Decl{Name: "level", Type: TypeBool})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "level", schemaErr.Option)
	assert.Contains(t, schemaErr.Error(), "registered twice")

	err = reg.Register(Decl{Name: "logdir", Alias: "l", Type: TypeDir})
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Error(), "already taken by --level")
}

func TestLookupResolvesAliases(t *testing.T) {
	reg := NewRegistry("")
	require.NoError(t, reg.Register(Decl{Name: "level", Alias: "l", Type: TypeString}))

	byName, ok := reg.Lookup("level")
	require.True(t, ok)
	byAlias, ok := reg.Lookup("l")
	require.True(t, ok)
	assert.Equal(t, byName.Name, byAlias.Name)

	_, ok = reg.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestPhaseTransitionIsTerminal(t *testing.T) {
	reg := NewRegistry("")
	require.NoError(t, reg.Register(Decl{Name: "anvild", Type: TypeBool, Default: true}))
	require.Equal(t, PhaseBootstrap, reg.Phase())

	require.NoError(t, reg.FinishBootstrap())
	require.Equal(t, PhaseFull, reg.Phase())
	require.Error(t, reg.FinishBootstrap())

	require.NoError(t, reg.Register(Decl{Name: "loop", Type: TypeBool}))

	anvild, ok := reg.Lookup("anvild")
	require.True(t, ok)
	assert.Equal(t, PhaseBootstrap, anvild.Phase())

	loop, ok := reg.Lookup("loop")
	require.True(t, ok)
	assert.Equal(t, PhaseFull, loop.Phase())

	bootstrap := reg.BootstrapDecls()
	require.Len(t, bootstrap, 1)
	assert.Equal(t, "anvild", bootstrap[0].Name)

	assert.Len(t, reg.Decls(), 2)
}

func TestDeclsPreserveRegistrationOrder(t *testing.T) {
	reg := NewRegistry("")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.Register(Decl{Name: name, Type: TypeBool}))
	}

	var got []string
	for _, d := range reg.Decls() {
		got = append(got, d.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got)
}

func TestFingerprintDefaultsToTrue(t *testing.T) {
	reg := NewRegistry("")
	require.NoError(t, reg.Register(Decl{Name: "colors", Type: TypeBool}))
	require.NoError(t, reg.Register(Decl{Name: "anvilrc", Type: TypeBool, NoFingerprint: true}))

	colors, _ := reg.Lookup("colors")
	assert.True(t, colors.Fingerprinted())

	anvilrc, _ := reg.Lookup("anvilrc")
	assert.False(t, anvilrc.Fingerprinted())
}
