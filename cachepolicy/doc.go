// Package cachepolicy implements a declarative caching-interception layer:
// named operations are wrapped so their results are transparently cached, or
// cache entries are invalidated, without touching the operation's own logic.
//
// # Overview
//
// Three pieces cooperate:
//
//   - Registry: the immutable table of OperationSpecs, one per wrapped
//     operation, built at configuration time. Registering an operation
//     compiles its key template, so every template failure surfaces before
//     the operation ever runs.
//   - Engine: executes one of two interception protocols per invocation,
//     read-through caching (ModeCache) or conditional invalidation
//     (ModeInvalidate), against a pluggable Backend.
//   - Pattern/MatchSpec: a small closed set of structural predicates deciding
//     whether the cache action fires for a given result.
//
// # Basic Usage
//
//	backend, _ := cachepolicy.NewMemoryBackend(cachepolicy.DefaultConfig())
//	engine := cachepolicy.NewEngine(backend)
//	registry := cachepolicy.NewRegistry()
//
//	spec, err := registry.Register(
//		"FetchData", []string{"userId"},
//		cachepolicy.ModeCache, "user_{userId}",
//		nil, // no match spec: always store
//		nil, // no backend options
//	)
//
// Call sites wrap the original operation in a thunk and let the engine decide
// whether it runs:
//
//	bindings, _ := spec.Bind(42)
//	result, err := engine.Intercept(ctx, spec, bindings, func(ctx context.Context) (any, error) {
//		return fetchData(ctx, 42)
//	})
//
// # Protocols
//
// ModeCache formats the key, queries the backend, and returns a stored value
// directly on a hit; the wrapped call is not invoked. On a miss the call
// runs once and its result is stored when the MatchSpec allows. An
// unavailable backend degrades to compute-without-caching for that
// invocation; the wrapped operation's result is never affected.
//
// ModeInvalidate always invokes the call first, then deletes the formatted
// key when the MatchSpec allows, and returns the result unchanged either way.
//
// Reads are best effort, writes are not: a failed Put or Delete means the
// backend broke its contract and the engine panics with a
// *BackendContractError rather than absorb it.
//
// # Concurrency
//
// The engine holds no mutable state and performs no synchronization. Specs
// are immutable after registration, so any number of invocations may run
// concurrently over the same Engine and Registry.
package cachepolicy
