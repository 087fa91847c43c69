// Package behavior defines the closed enumerations that describe what the
// engine does when file globs or file-argument owners cannot be resolved.
//
// The two domain-specific enums convert one-way into GlobMatchErrorBehavior,
// the form the filesystem glob engine consumes. The conversions are total
// over the defined members: each domain enum's literals are a subset of the
// glob enum's literals by construction. There is deliberately no conversion
// back.
package behavior

import (
	"github.com/anvilbuild/anvil/pkg/option"
)

// GlobMatchErrorBehavior is the action to perform when a glob fails to match
// any source files.
type GlobMatchErrorBehavior string

const (
	GlobMatchIgnore GlobMatchErrorBehavior = "ignore"
	GlobMatchWarn   GlobMatchErrorBehavior = "warn"
	GlobMatchError  GlobMatchErrorBehavior = "error"
)

// GlobMatchErrorBehaviors lists the legal literals in declaration order.
var GlobMatchErrorBehaviors = []string{"ignore", "warn", "error"}

// ParseGlobMatchErrorBehavior constructs the enum from a literal, failing
// with an InvalidEnumValueError for anything outside the defined set.
func ParseGlobMatchErrorBehavior(s string) (GlobMatchErrorBehavior, error) {
	switch GlobMatchErrorBehavior(s) {
	case GlobMatchIgnore, GlobMatchWarn, GlobMatchError:
		return GlobMatchErrorBehavior(s), nil
	}
	return "", &option.InvalidEnumValueError{
		Enum:  "glob match error behavior",
		Value: s,
		Legal: GlobMatchErrorBehaviors,
	}
}

// FilesNotFoundBehavior is the action to perform when files and globs named
// in build metadata cannot be found.
type FilesNotFoundBehavior string

const (
	FilesNotFoundWarn  FilesNotFoundBehavior = "warn"
	FilesNotFoundError FilesNotFoundBehavior = "error"
)

// FilesNotFoundBehaviors lists the legal literals in declaration order.
var FilesNotFoundBehaviors = []string{"warn", "error"}

// ParseFilesNotFoundBehavior constructs the enum from a literal, failing
// with an InvalidEnumValueError for anything outside the defined set.
func ParseFilesNotFoundBehavior(s string) (FilesNotFoundBehavior, error) {
	switch FilesNotFoundBehavior(s) {
	case FilesNotFoundWarn, FilesNotFoundError:
		return FilesNotFoundBehavior(s), nil
	}
	return "", &option.InvalidEnumValueError{
		Enum:  "files-not-found behavior",
		Value: s,
		Legal: FilesNotFoundBehaviors,
	}
}

// ToGlobMatchErrorBehavior maps the enum onto the form the glob engine
// consumes: warn maps to warn, error to error.
func (b FilesNotFoundBehavior) ToGlobMatchErrorBehavior() GlobMatchErrorBehavior {
	return GlobMatchErrorBehavior(b)
}

// OwnersNotFoundBehavior is the action to perform when a file argument has
// no owning target.
type OwnersNotFoundBehavior string

const (
	OwnersNotFoundIgnore OwnersNotFoundBehavior = "ignore"
	OwnersNotFoundWarn   OwnersNotFoundBehavior = "warn"
	OwnersNotFoundError  OwnersNotFoundBehavior = "error"
)

// OwnersNotFoundBehaviors lists the legal literals in declaration order.
var OwnersNotFoundBehaviors = []string{"ignore", "warn", "error"}

// ParseOwnersNotFoundBehavior constructs the enum from a literal, failing
// with an InvalidEnumValueError for anything outside the defined set.
func ParseOwnersNotFoundBehavior(s string) (OwnersNotFoundBehavior, error) {
	switch OwnersNotFoundBehavior(s) {
	case OwnersNotFoundIgnore, OwnersNotFoundWarn, OwnersNotFoundError:
		return OwnersNotFoundBehavior(s), nil
	}
	return "", &option.InvalidEnumValueError{
		Enum:  "owners-not-found behavior",
		Value: s,
		Legal: OwnersNotFoundBehaviors,
	}
}

// ToGlobMatchErrorBehavior maps the enum onto the form the glob engine
// consumes.
func (b OwnersNotFoundBehavior) ToGlobMatchErrorBehavior() GlobMatchErrorBehavior {
	return GlobMatchErrorBehavior(b)
}
