package option

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Values is the resolved-value bag for one registry. It is seeded from the
// declared defaults; an external value source (config files, command-line
// engine) then overrides entries by name. After resolution completes the bag
// is treated as read-only.
//
// Typed getters panic on names that were never registered: that is a schema
// bug in the caller, not a user error, and registration already validated
// every name a correct caller can use.
type Values struct {
	reg  *Registry
	vals map[string]any
}

// NewValues creates a value bag seeded with every declaration's default.
// List and map defaults are copied, so later mutation of the bag never
// aliases declaration state.
func NewValues(reg *Registry) *Values {
	vals := make(map[string]any, len(reg.order))
	for _, d := range reg.Decls() {
		if d.Default == nil {
			vals[d.Name] = zeroFor(d.Type)
		} else {
			vals[d.Name] = copyValue(d.Default)
		}
	}
	return &Values{reg: reg, vals: vals}
}

// Registry returns the registry this bag was resolved against.
func (v *Values) Registry() *Registry {
	return v.reg
}

// Set parses a raw literal and records it for the named option. The name may
// be a long name or a single-letter alias. Enum and choice options reject
// literals outside their set with an InvalidEnumValueError.
func (v *Values) Set(ctx context.Context, name string, raw string) error {
	d, ok := v.reg.Lookup(name)
	if !ok {
		return errors.Errorf("unknown option %q in scope %q", name, v.reg.scope)
	}

	var val any
	switch d.Type {
	case TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.Errorf("parsing %s as bool: %w", d.Flag(), err)
		}
		val = b
	case TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.Errorf("parsing %s as int: %w", d.Flag(), err)
		}
		val = n
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.Errorf("parsing %s as float: %w", d.Flag(), err)
		}
		val = f
	case TypeString, TypeDir, TypeEnum:
		if err := checkChoice(d, raw); err != nil {
			return err
		}
		val = raw
	case TypeList:
		val = splitList(raw)
	case TypeMap:
		m, err := splitMap(raw)
		if err != nil {
			return errors.Errorf("parsing %s: %w", d.Flag(), err)
		}
		val = m
	default:
		return errors.Errorf("option %s has invalid type", d.Flag())
	}

	v.store(ctx, d, val)
	return nil
}

// SetValue records an already-decoded value for the named option, coercing
// from the shapes produced by YAML/JSON/HCL decoding.
func (v *Values) SetValue(ctx context.Context, name string, raw any) error {
	d, ok := v.reg.Lookup(name)
	if !ok {
		return errors.Errorf("unknown option %q in scope %q", name, v.reg.scope)
	}

	val, err := coerce(d, raw)
	if err != nil {
		return err
	}
	v.store(ctx, d, val)
	return nil
}

// store records the value and emits the deprecation warning, if any. The
// warning is non-fatal: deprecated options keep working until their stated
// removal version.
func (v *Values) store(ctx context.Context, d Decl, val any) {
	v.vals[d.Name] = val
	if d.Deprecated() {
		zerolog.Ctx(ctx).Warn().
			Str("option", d.Flag()).
			Str("removal_version", d.RemovalVersion).
			Msgf("%s is deprecated and will be removed in version %s: %s",
				d.Flag(), d.RemovalVersion, d.RemovalHint)
	}
}

// Bool returns the resolved value of a bool option.
func (v *Values) Bool(name string) bool {
	return get[bool](v, name, TypeBool)
}

// Int returns the resolved value of an int option.
func (v *Values) Int(name string) int {
	return get[int](v, name, TypeInt)
}

// Float returns the resolved value of a float option.
func (v *Values) Float(name string) float64 {
	return get[float64](v, name, TypeFloat)
}

// Str returns the resolved value of a string, dir, or enum option.
func (v *Values) Str(name string) string {
	d := v.mustLookup(name)
	switch d.Type {
	case TypeString, TypeDir, TypeEnum:
		return v.vals[d.Name].(string)
	default:
		panic(fmt.Sprintf("option %s is a %s, not a string", d.Flag(), d.Type))
	}
}

// StrList returns a copy of the resolved value of a list option.
func (v *Values) StrList(name string) []string {
	l := get[[]string](v, name, TypeList)
	out := make([]string, len(l))
	copy(out, l)
	return out
}

// StrMap returns a copy of the resolved value of a map option.
func (v *Values) StrMap(name string) map[string]string {
	m := get[map[string]string](v, name, TypeMap)
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = val
	}
	return out
}

func get[T any](v *Values, name string, want Type) T {
	d := v.mustLookup(name)
	if d.Type != want {
		panic(fmt.Sprintf("option %s is a %s, not a %s", d.Flag(), d.Type, want))
	}
	return v.vals[d.Name].(T)
}

func (v *Values) mustLookup(name string) Decl {
	d, ok := v.reg.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("option %q not registered in scope %q", name, v.reg.scope))
	}
	return d
}

func checkChoice(d Decl, s string) error {
	if len(d.Choices) == 0 || member(s, d.Choices) {
		return nil
	}
	return &InvalidEnumValueError{Enum: d.Flag(), Value: s, Legal: d.Choices}
}

// coerce converts a decoded config value into the declaration's Go shape.
func coerce(d Decl, raw any) (any, error) {
	switch d.Type {
	case TypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case TypeInt:
		switch n := raw.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n == float64(int(n)) {
				return int(n), nil
			}
		}
	case TypeFloat:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case TypeString, TypeDir, TypeEnum:
		if s, ok := raw.(string); ok {
			if err := checkChoice(d, s); err != nil {
				return nil, err
			}
			return s, nil
		}
	case TypeList:
		switch l := raw.(type) {
		case []string:
			out := make([]string, len(l))
			copy(out, l)
			return out, nil
		case []any:
			out := make([]string, 0, len(l))
			for _, e := range l {
				s, ok := e.(string)
				if !ok {
					return nil, errors.Errorf("%s: list member %v is not a string", d.Flag(), e)
				}
				out = append(out, s)
			}
			return out, nil
		}
	case TypeMap:
		switch m := raw.(type) {
		case map[string]string:
			out := make(map[string]string, len(m))
			for k, val := range m {
				out[k] = val
			}
			return out, nil
		case map[string]any:
			out := make(map[string]string, len(m))
			for k, e := range m {
				s, ok := e.(string)
				if !ok {
					return nil, errors.Errorf("%s: value for key %q is not a string", d.Flag(), k)
				}
				out[k] = s
			}
			return out, nil
		}
	}
	return nil, errors.Errorf("%s: cannot use %T value %v as %s", d.Flag(), raw, raw, d.Type)
}

// splitList parses a comma-separated literal. Richer list edits (append,
// filter) belong to the external command-line engine, not the schema.
func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func splitMap(raw string) (map[string]string, error) {
	out := map[string]string{}
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		k, val, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.Errorf("map entry %q is not key=value", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return out, nil
}

func zeroFor(t Type) any {
	switch t {
	case TypeBool:
		return false
	case TypeInt:
		return 0
	case TypeFloat:
		return 0.0
	case TypeString, TypeDir, TypeEnum:
		return ""
	case TypeList:
		return []string{}
	case TypeMap:
		return map[string]string{}
	default:
		return nil
	}
}

func copyValue(val any) any {
	switch v := val.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, e := range v {
			out[k] = e
		}
		return out
	default:
		return val
	}
}
