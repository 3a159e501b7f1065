package cachepolicy

import (
	"fmt"

	"github.com/goliatone/go-cache-policy/keytemplate"
)

// Mode selects the interception protocol for an operation.
type Mode uint8

const (
	// ModeCache is read-through caching: return the stored value on a hit,
	// compute and store on a miss.
	ModeCache Mode = iota

	// ModeInvalidate invokes the operation first and deletes its cache entry
	// when the result matches the declared MatchSpec.
	ModeInvalidate
)

func (m Mode) String() string {
	switch m {
	case ModeCache:
		return "cache"
	case ModeInvalidate:
		return "invalidate"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// OperationSpec is the full declared behavior for one operation: its compiled
// key, interception mode, match spec, and backend options. A spec is created
// once at registration, never mutated, and read concurrently by every
// invocation for the lifetime of the process.
type OperationSpec struct {
	name     string
	argNames []string
	key      *keytemplate.CompiledKey
	mode     Mode
	match    *MatchSpec
	options  Options
}

// Name returns the operation identity the spec was registered under.
func (s *OperationSpec) Name() string {
	return s.name
}

// Mode returns the interception protocol for the operation.
func (s *OperationSpec) Mode() Mode {
	return s.mode
}

// ArgNames returns a copy of the operation's declared argument names.
func (s *OperationSpec) ArgNames() []string {
	return append([]string(nil), s.argNames...)
}

// Key returns the operation's compiled key template.
func (s *OperationSpec) Key() *keytemplate.CompiledKey {
	return s.key
}

// Match returns the operation's match spec; nil means unconditional.
func (s *OperationSpec) Match() *MatchSpec {
	return s.match
}

// Options returns the opaque option bag forwarded to Backend.Put.
func (s *OperationSpec) Options() Options {
	return s.options
}

// Bind builds the Bindings for one invocation by pairing the operation's
// declared argument names with the live values, in declaration order.
func (s *OperationSpec) Bind(values ...any) (keytemplate.Bindings, error) {
	return keytemplate.BindArgs(s.argNames, values...)
}
