// Package core provides the call tracer: signature descriptors, argument
// binding, predicate matching, value formatting and the wrapping logic that
// reports call entry, return and error through a Sink.
package core

import (
	"fmt"

	"github.com/coregx/calltrace/internal/util"
)

// Param is a declared parameter of a traced callable.
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// P declares a parameter without a default value.
func P(name string) Param {
	return Param{Name: name}
}

// Opt declares a parameter with a default value.
func Opt(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Signature describes the declared parameters of a callable.
// It is immutable once built and shared by every invocation of the wrapper.
type Signature struct {
	// Name is the callable's name as shown in records.
	Name string
	// Params are the declared parameters in declaration order.
	Params []Param
	// VarArgs names the catch-all positional parameter ("" if none).
	VarArgs string
	// VarKwargs names the catch-all keyword parameter ("" if none).
	VarKwargs string

	index map[string]int
}

// NewSignature builds and validates a Signature.
//
// Returns error wrapping ErrInvalidSignature if:
//   - a parameter or catch-all name is empty or duplicated.
//   - a parameter without default follows one with a default.
func NewSignature(name string, params []Param, varArgs, varKwargs string) (*Signature, error) {
	sig := &Signature{
		Name:      name,
		Params:    append([]Param(nil), params...),
		VarArgs:   varArgs,
		VarKwargs: varKwargs,
		index:     make(map[string]int, len(params)),
	}

	seen := make(map[string]struct{}, len(params)+2)
	defaulted := false
	for i, p := range sig.Params {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: parameter %d has no name", ErrInvalidSignature, i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate parameter %q", ErrInvalidSignature, p.Name)
		}
		if defaulted && !p.HasDefault {
			return nil, fmt.Errorf("%w: parameter %q without default follows a defaulted parameter",
				ErrInvalidSignature, p.Name)
		}
		defaulted = defaulted || p.HasDefault
		seen[p.Name] = struct{}{}
		sig.index[p.Name] = i
	}

	for _, catchAll := range []string{varArgs, varKwargs} {
		if catchAll == "" {
			continue
		}
		if _, dup := seen[catchAll]; dup {
			return nil, fmt.Errorf("%w: duplicate parameter %q", ErrInvalidSignature, catchAll)
		}
		seen[catchAll] = struct{}{}
	}

	return sig, nil
}

// MustSignature is like NewSignature but panics on error.
func MustSignature(name string, params []Param, varArgs, varKwargs string) *Signature {
	sig, err := NewSignature(name, params, varArgs, varKwargs)
	if err != nil {
		panic(err)
	}
	return sig
}

// Lookup returns the position of the declared parameter called name.
func (s *Signature) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Names returns the declared parameter names in order.
func (s *Signature) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// Describe derives a Signature from a Go func.
//
// A leading context.Context parameter is not a declared parameter. A variadic
// final parameter becomes the catch-all positional parameter. Names default to
// arg0..argN and "args"; when names are given they must cover every declared
// parameter, plus the variadic one if present.
func Describe(fn any, names ...string) (*Signature, error) {
	info, err := util.InspectFunc(fn)
	if err != nil {
		return nil, WrapError(ErrIntrospection, err.Error())
	}
	return describe(info, info.Name, names)
}

func describe(info *util.FuncInfo, name string, names []string) (*Signature, error) {
	want := info.Params
	if info.Variadic {
		want++
	}
	if len(names) > 0 && len(names) != want {
		return nil, fmt.Errorf("%w: %s declares %d parameters, got %d names",
			ErrIntrospection, name, want, len(names))
	}

	params := make([]Param, info.Params)
	for i := range params {
		params[i] = P(fmt.Sprintf("arg%d", i))
		if len(names) > 0 {
			params[i].Name = names[i]
		}
	}

	varArgs := ""
	if info.Variadic {
		varArgs = "args"
		if len(names) > 0 {
			varArgs = names[len(names)-1]
		}
	}

	return NewSignature(name, params, varArgs, "")
}
