package core

import (
	"sort"
	"strings"
)

// Kwargs holds keyword arguments of a call.
type Kwargs map[string]any

// Keys returns the keyword names in sorted order.
func (k Kwargs) Keys() []string {
	keys := make([]string, 0, len(k))
	for key := range k {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Call is the actual argument pair of one invocation, as seen by the
// on-call matcher.
type Call struct {
	Args   []any
	Kwargs Kwargs
}

type unset struct{}

func (unset) String() string { return "<unset>" }

// Unset marks a declared parameter that received neither an actual value nor a default.
var Unset any = unset{}

// Bound is a declared parameter resolved for one call.
type Bound struct {
	Name  string
	Value any
	// Set is false when Value is Unset.
	Set bool
}

// Binding is the effective argument set of one call.
type Binding struct {
	// Params has exactly one entry per declared parameter, in declaration order.
	Params []Bound
	// Extra holds positional arguments beyond the declared parameters.
	Extra []any
	// ExtraKw holds keyword arguments matching no declared parameter.
	ExtraKw Kwargs
}

// Bind resolves actual arguments against sig. Each declared parameter takes
// the keyword value if given, else the positional value, else its default,
// else Unset. Bind never fails, whatever the arity of the call.
func Bind(sig *Signature, args []any, kwargs Kwargs) Binding {
	b := Binding{
		Params:  make([]Bound, len(sig.Params)),
		ExtraKw: Kwargs{},
	}

	for i, p := range sig.Params {
		switch {
		case i < len(args):
			b.Params[i] = Bound{Name: p.Name, Value: args[i], Set: true}
		case p.HasDefault:
			b.Params[i] = Bound{Name: p.Name, Value: p.Default, Set: true}
		default:
			b.Params[i] = Bound{Name: p.Name, Value: Unset}
		}
	}

	if len(args) > len(sig.Params) {
		b.Extra = append([]any(nil), args[len(sig.Params):]...)
	} else {
		b.Extra = []any{}
	}

	for name, v := range kwargs {
		if i, ok := sig.Lookup(name); ok {
			b.Params[i].Value = v
			b.Params[i].Set = true
			continue
		}
		b.ExtraKw[name] = v
	}

	return b
}

// Render formats the binding as "name=value, ..." using f. Catch-all entries
// are appended only when sig declares them.
func (b Binding) Render(sig *Signature, f Formatter) string {
	parts := make([]string, 0, len(b.Params)+2)
	for _, p := range b.Params {
		parts = append(parts, p.Name+"="+f(p.Name, p.Value))
	}
	if sig.VarArgs != "" {
		name := "*" + sig.VarArgs
		parts = append(parts, name+"="+f(name, b.Extra))
	}
	if sig.VarKwargs != "" {
		name := "**" + sig.VarKwargs
		parts = append(parts, name+"="+f(name, map[string]any(b.ExtraKw)))
	}
	return strings.Join(parts, ", ")
}
