package cachepolicy

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-cache-policy/keytemplate"
)

// Call is the wrapped operation as a thunk over its already bound arguments.
// The engine invokes it at most once per interception, never retrying on a
// cache miss or backend error.
type Call func(ctx context.Context) (any, error)

// Engine executes the interception protocols over a Backend. It holds no
// mutable state, so a single Engine serves any number of concurrent
// interceptions.
type Engine struct {
	backend Backend
	conf    any
	log     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBackendConfig sets the opaque per-consumer value passed unchanged on
// every backend call. The engine never inspects it.
func WithBackendConfig(conf any) EngineOption {
	return func(e *Engine) {
		e.conf = conf
	}
}

// WithLogger sets the logger used to report degraded backend reads.
func WithLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates an engine over the provided backend.
func NewEngine(backend Backend, opts ...EngineOption) *Engine {
	e := &Engine{
		backend: backend,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Intercept runs the interception protocol declared by spec around call and
// returns the operation's result unchanged. In ModeCache the call is skipped
// entirely on a hit; in ModeInvalidate it always runs. Either way the caller
// observes exactly what the wrapped operation would have returned, except
// that a hit substitutes the stored value for recomputation.
func (e *Engine) Intercept(ctx context.Context, spec *OperationSpec, bindings keytemplate.Bindings, call Call) (any, error) {
	if spec.mode == ModeInvalidate {
		return e.invalidate(ctx, spec, bindings, call)
	}
	return e.readThrough(ctx, spec, bindings, call)
}

// readThrough implements the cache protocol: format key, query backend,
// return on hit, compute-and-maybe-store on miss.
func (e *Engine) readThrough(ctx context.Context, spec *OperationSpec, bindings keytemplate.Bindings, call Call) (any, error) {
	key := spec.key.Format(bindings)

	stored, found, err := e.backend.Get(ctx, e.conf, key)
	if err != nil {
		// Reads are best effort: an unavailable backend degrades to
		// compute-without-caching for this invocation.
		e.log.WarnContext(ctx, "cache read failed, recomputing",
			"operation", spec.name, "key", key, "error", err)
		return call(ctx)
	}
	if found {
		return stored, nil
	}

	result, err := call(ctx)
	if err != nil {
		return result, err
	}

	if spec.match.Evaluate(result) {
		if perr := e.backend.Put(ctx, e.conf, key, result, spec.options); perr != nil {
			panic(&BackendContractError{Operation: spec.name, Call: "put", Key: key, Err: perr})
		}
	}
	return result, nil
}

// invalidate implements the invalidation protocol: invoke first,
// unconditionally, then delete the entry when the result matches.
func (e *Engine) invalidate(ctx context.Context, spec *OperationSpec, bindings keytemplate.Bindings, call Call) (any, error) {
	result, err := call(ctx)
	if err != nil {
		return result, err
	}

	if spec.match.Evaluate(result) {
		key := spec.key.Format(bindings)
		if derr := e.backend.Delete(ctx, e.conf, key); derr != nil {
			panic(&BackendContractError{Operation: spec.name, Call: "delete", Key: key, Err: derr})
		}
	}
	return result, nil
}
