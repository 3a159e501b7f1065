package cachepolicy

import "fmt"

// ConfigError is a configuration-time failure tied to one operation's
// declared spec. It carries the operation name, arity, and template so a bad
// declaration is diagnosable without ever invoking the operation.
type ConfigError struct {
	Operation string
	Arity     int
	Template  string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("cachepolicy: operation %s/%d template %q: %s", e.Operation, e.Arity, e.Template, msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// BackendContractError reports a backend Put or Delete that failed after the
// engine had already decided the action must occur. Writes are only attempted
// following a real miss or a matched invalidation, so a failure here means
// the backend handle's own invariant is broken; the engine panics with this
// error rather than fold it into the operation's return value.
type BackendContractError struct {
	Operation string
	Call      string // "put" or "delete"
	Key       string
	Err       error
}

func (e *BackendContractError) Error() string {
	return fmt.Sprintf("cachepolicy: backend %s failed for operation %s key %q: %v", e.Call, e.Operation, e.Key, e.Err)
}

func (e *BackendContractError) Unwrap() error {
	return e.Err
}
