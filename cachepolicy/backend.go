package cachepolicy

import "context"

// Options is the opaque option bag declared on an operation and forwarded
// verbatim to Backend.Put. The engine never inspects it; well known entries
// such as "ttl" are interpreted by individual backends.
type Options = map[string]any

// Backend is the external key/value store the engine drives. The engine owns
// no cache itself; it only decides when to call one.
//
// conf is an opaque per-consumer value supplied once (see WithBackendConfig)
// and passed unchanged on every call; the engine never inspects it.
//
// Get reports (value, true, nil) for a stored entry, (nil, false, nil) for a
// key with no entry, and a non-nil error when the backend is unavailable.
// Unavailability is tolerated: the engine recomputes without caching.
//
// Put and Delete must succeed. They are only called after the engine has
// decided the action must occur, so an error from either is a contract
// violation, not an operational condition.
type Backend interface {
	Get(ctx context.Context, conf any, key string) (any, bool, error)
	Put(ctx context.Context, conf any, key string, value any, opts Options) error
	Delete(ctx context.Context, conf any, key string) error
}
