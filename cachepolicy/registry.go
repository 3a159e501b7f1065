package cachepolicy

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-cache-policy/keytemplate"
)

// Registry is the table of compiled operation specs. It is populated once at
// configuration time and read concurrently by every invocation afterwards.
type Registry struct {
	specs *xsync.MapOf[string, *OperationSpec]
}

// NewRegistry creates an empty spec registry.
func NewRegistry() *Registry {
	return &Registry{specs: xsync.NewMapOf[string, *OperationSpec]()}
}

// Register compiles template against argNames and stores the resulting spec
// under name. Every template failure surfaces here as a *ConfigError carrying
// the operation name and arity. match may be nil for an unconditional action;
// opts is forwarded verbatim to the backend on every Put.
func (r *Registry) Register(name string, argNames []string, mode Mode, template string, match *MatchSpec, opts Options) (*OperationSpec, error) {
	if name == "" {
		return nil, &ConfigError{Arity: len(argNames), Template: template, Message: "operation name must not be empty"}
	}

	seen := make(map[string]struct{}, len(argNames))
	for _, arg := range argNames {
		if _, dup := seen[arg]; dup {
			return nil, &ConfigError{Operation: name, Arity: len(argNames), Template: template, Message: fmt.Sprintf("duplicate argument name %q", arg)}
		}
		seen[arg] = struct{}{}
	}

	key, err := keytemplate.Compile(template, argNames)
	if err != nil {
		return nil, &ConfigError{Operation: name, Arity: len(argNames), Template: template, Err: err}
	}

	spec := &OperationSpec{
		name:     name,
		argNames: append([]string(nil), argNames...),
		key:      key,
		mode:     mode,
		match:    match,
		options:  opts,
	}

	if _, loaded := r.specs.LoadOrStore(name, spec); loaded {
		return nil, &ConfigError{Operation: name, Arity: len(argNames), Template: template, Message: "operation already registered"}
	}
	return spec, nil
}

// MustRegister is Register for static configuration; it panics on error.
func (r *Registry) MustRegister(name string, argNames []string, mode Mode, template string, match *MatchSpec, opts Options) *OperationSpec {
	spec, err := r.Register(name, argNames, mode, template, match, opts)
	if err != nil {
		panic(err)
	}
	return spec
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (*OperationSpec, bool) {
	return r.specs.Load(name)
}

// Size returns the number of registered operations.
func (r *Registry) Size() int {
	return r.specs.Size()
}
