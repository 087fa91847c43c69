package option

import (
	"gitlab.com/tozd/go/errors"
)

// Phase identifies which registration phase a declaration belongs to.
//
// Bootstrap options are the subset whose values must be resolved before the
// execution engine can be constructed. They are registered first, and remain
// visible afterward as ordinary options: the phase distinction matters only
// at registration time.
type Phase int

const (
	PhaseBootstrap Phase = iota
	PhaseFull
)

// Registry holds the declared option schema for one scope. Declarations are
// kept in registration order. Registration moves through two states,
// bootstrap then full; the transition is one-way.
//
// A Registry is not safe for concurrent registration; registration is a
// sequential startup step.
type Registry struct {
	scope   string
	phase   Phase
	decls   map[string]*Decl
	aliases map[string]string // alias -> long name
	order   []string
}

// NewRegistry creates an empty registry for the given scope. The empty scope
// name is the global scope.
func NewRegistry(scope string) *Registry {
	return &Registry{
		scope:   scope,
		phase:   PhaseBootstrap,
		decls:   map[string]*Decl{},
		aliases: map[string]string{},
	}
}

// Scope returns the registry's scope name.
func (r *Registry) Scope() string {
	return r.scope
}

// Phase returns the current registration phase.
func (r *Registry) Phase() Phase {
	return r.phase
}

// Register validates and records a declaration. Duplicate names or aliases
// within the scope, and malformed declarations, are SchemaErrors: fatal
// configuration-schema defects, not user errors.
func (r *Registry) Register(d Decl) error {
	if err := d.validate(); err != nil {
		return &SchemaError{Scope: r.scope, Option: d.Name, Reason: err.Error()}
	}
	if _, exists := r.decls[d.Name]; exists {
		return &SchemaError{Scope: r.scope, Option: d.Name, Reason: "registered twice"}
	}
	if d.Alias != "" {
		if prior, exists := r.aliases[d.Alias]; exists {
			return &SchemaError{
				Scope:  r.scope,
				Option: d.Name,
				Reason: "alias -" + d.Alias + " already taken by --" + prior,
			}
		}
	}

	d.phase = r.phase
	r.decls[d.Name] = &d
	r.order = append(r.order, d.Name)
	if d.Alias != "" {
		r.aliases[d.Alias] = d.Name
	}
	return nil
}

// FinishBootstrap transitions the registry from bootstrap to full
// registration. The transition is terminal: calling it twice is an error.
func (r *Registry) FinishBootstrap() error {
	if r.phase != PhaseBootstrap {
		return errors.Errorf("bootstrap registration already finished for scope %q", r.scope)
	}
	r.phase = PhaseFull
	return nil
}

// Lookup resolves a long name or a single-letter alias to its declaration.
func (r *Registry) Lookup(name string) (Decl, bool) {
	if long, ok := r.aliases[name]; ok {
		name = long
	}
	d, ok := r.decls[name]
	if !ok {
		return Decl{}, false
	}
	return *d, true
}

// Decls returns all declarations in registration order.
func (r *Registry) Decls() []Decl {
	out := make([]Decl, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.decls[name])
	}
	return out
}

// BootstrapDecls returns the declarations registered during the bootstrap
// phase, in registration order.
func (r *Registry) BootstrapDecls() []Decl {
	var out []Decl
	for _, name := range r.order {
		if d := r.decls[name]; d.phase == PhaseBootstrap {
			out = append(out, *d)
		}
	}
	return out
}
