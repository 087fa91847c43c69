package option

import (
	"fmt"
	"strings"
)

// SchemaError reports a malformed or duplicate option declaration. It is a
// programming error in registration code, fatal at startup.
type SchemaError struct {
	Scope  string // scope the declaration was registered in ("" is the global scope)
	Option string // long name of the offending declaration
	Reason string
}

func (e *SchemaError) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = "GLOBAL"
	}
	return fmt.Sprintf("invalid option declaration `--%s` in scope %s: %s", e.Option, scope, e.Reason)
}

// InvalidEnumValueError reports a user-supplied literal that is not a member
// of a closed enum. The message includes the offending string and the full
// legal set.
type InvalidEnumValueError struct {
	Enum  string   // display name of the enum or flag, e.g. "--files-not-found-behavior"
	Value string   // the offending literal
	Legal []string // all legal literals, in declaration order
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s (expected one of: %s)",
		e.Value, e.Enum, strings.Join(e.Legal, ", "))
}

// ValidationError reports a cross-option dependency violation found after
// all options are resolved. It names both the triggering flag and the flag
// it requires.
type ValidationError struct {
	Flag     string // the flag whose value triggered the rule, e.g. "--remote-execution"
	Requires string // the flag that must also be set
	Hint     string // optional extra guidance appended to the message
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("the `%s` option requires also setting `%s`", e.Flag, e.Requires)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}
