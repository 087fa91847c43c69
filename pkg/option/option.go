package option

import (
	"fmt"
	"regexp"
)

// Type is the value type of a declared option.
type Type int

const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeList // requires MemberType
	TypeMap  // string keys to string values
	TypeDir  // a directory path; string-valued, rendered with a <dir> metavar
	TypeEnum // requires Choices and a member Default
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	case TypeDir:
		return "dir"
	case TypeEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// Decl declares a single option: its name, type, default, and behavioral
// flags. A Decl is validated when it is registered; a zero or inconsistent
// declaration is a SchemaError at startup, never a runtime surprise.
//
// Fields mirror what the command-line/config-file engine needs to expose per
// option: long name, optional single-letter alias, type, default, advanced
// flag, daemon flag, fingerprint participation, and deprecation metadata.
type Decl struct {
	// Name is the unique long name within the scope, kebab-case without the
	// leading dashes, e.g. "remote-execution-server".
	Name string

	// Alias is an optional single-letter short form, e.g. "l" for "level".
	Alias string

	Type Type

	// Default is the resolved value used when nothing else sets the option.
	// A nil Default means the zero value for the declared type. Lists must
	// be []string, maps map[string]string, enums a member of Choices.
	Default any

	// MemberType is the element type of a TypeList option. Only TypeString
	// members are currently supported.
	MemberType Type

	// Choices restricts a TypeEnum or TypeString option to a literal set.
	Choices []string

	// Metavar overrides the value placeholder shown in help, e.g. "<dir>".
	Metavar string

	// Advanced options are hidden from basic help output.
	Advanced bool

	// Daemon marks an option whose change invalidates and restarts any
	// persistent background process that cached a prior resolution.
	Daemon bool

	// NoFingerprint excludes the option's value from cache-key computation.
	// Options participate in fingerprinting unless this is set.
	NoFingerprint bool

	// RemovalVersion, when set, marks the option deprecated: resolving a
	// value for it warns (naming RemovalHint) until that version ships.
	RemovalVersion string
	RemovalHint    string

	Help string

	phase Phase // stamped by the Registry at registration time
}

// Phase reports the registration phase the declaration was registered in.
func (d Decl) Phase() Phase {
	return d.phase
}

// Fingerprinted reports whether the option participates in cache-key
// computation.
func (d Decl) Fingerprinted() bool {
	return !d.NoFingerprint
}

// Deprecated reports whether the option carries deprecation metadata.
func (d Decl) Deprecated() bool {
	return d.RemovalVersion != ""
}

// Flag returns the long flag form, e.g. "--level".
func (d Decl) Flag() string {
	return "--" + d.Name
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// validate checks the declaration for internal consistency. All constraints
// here are statically checkable: they depend only on the declaration itself.
func (d Decl) validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf(format, args...)
	}
	if d.Name == "" {
		return fail("empty name")
	}
	if !nameRe.MatchString(d.Name) {
		return fail("name %q is not kebab-case", d.Name)
	}
	if d.Alias != "" && len(d.Alias) != 1 {
		return fail("alias %q is not a single letter", d.Alias)
	}
	switch d.Type {
	case TypeBool, TypeInt, TypeFloat, TypeString, TypeDir:
	case TypeList:
		if d.MemberType != TypeString {
			return fail("list options must declare MemberType (string)")
		}
	case TypeMap:
	case TypeEnum:
		if len(d.Choices) == 0 {
			return fail("enum options must declare Choices")
		}
		if d.Default == nil {
			return fail("enum options must declare a Default drawn from Choices")
		}
	default:
		return fail("missing or invalid Type")
	}
	if len(d.Choices) > 0 && d.Type != TypeEnum && d.Type != TypeString {
		return fail("Choices is only valid on enum and string options")
	}
	if d.RemovalVersion != "" && d.RemovalHint == "" {
		return fail("deprecated options must carry a RemovalHint naming the replacement")
	}
	if err := d.checkDefault(); err != nil {
		return err
	}
	return nil
}

// checkDefault verifies that Default has the declared type and, when Choices
// is set, is a member of it.
func (d Decl) checkDefault() error {
	if d.Default == nil {
		return nil
	}
	switch d.Type {
	case TypeBool:
		if _, ok := d.Default.(bool); !ok {
			return fmt.Errorf("default %v is not a bool", d.Default)
		}
	case TypeInt:
		if _, ok := d.Default.(int); !ok {
			return fmt.Errorf("default %v is not an int", d.Default)
		}
	case TypeFloat:
		if _, ok := d.Default.(float64); !ok {
			return fmt.Errorf("default %v is not a float", d.Default)
		}
	case TypeString, TypeDir, TypeEnum:
		s, ok := d.Default.(string)
		if !ok {
			return fmt.Errorf("default %v is not a string", d.Default)
		}
		if len(d.Choices) > 0 && !member(s, d.Choices) {
			return fmt.Errorf("default %q is not a member of Choices %v", s, d.Choices)
		}
	case TypeList:
		if _, ok := d.Default.([]string); !ok {
			return fmt.Errorf("default %v is not a []string", d.Default)
		}
	case TypeMap:
		if _, ok := d.Default.(map[string]string); !ok {
			return fmt.Errorf("default %v is not a map[string]string", d.Default)
		}
	}
	return nil
}

func member(s string, set []string) bool {
	for _, m := range set {
		if s == m {
			return true
		}
	}
	return false
}
