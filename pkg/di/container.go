package di

import (
	"context"

	"github.com/goliatone/go-cache-policy/cachepolicy"
	"github.com/goliatone/go-cache-policy/internal/cacheinfra"
	"github.com/goliatone/go-cache-policy/keytemplate"
)

// Container provides dependency injection for the interception components.
// It manages singleton instances of the backend, the spec registry, and the
// policy engine, and exposes convenience registration helpers.
type Container struct {
	backend  cachepolicy.Backend
	registry *cachepolicy.Registry
	engine   *cachepolicy.Engine
	config   cacheinfra.Config
}

// NewContainer creates a new DI container with the provided cache
// configuration. It initializes the in-memory backend using the sturdyc
// adapter and wires a fresh registry and engine around it.
func NewContainer(config cacheinfra.Config, opts ...cachepolicy.EngineOption) (*Container, error) {
	backend, err := cacheinfra.NewSturdycBackend(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		backend:  backend,
		registry: cachepolicy.NewRegistry(),
		engine:   cachepolicy.NewEngine(backend, opts...),
		config:   config,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cacheinfra.DefaultConfig())
}

// Backend returns the singleton backend instance.
func (c *Container) Backend() cachepolicy.Backend {
	return c.backend
}

// Registry returns the singleton spec registry.
func (c *Container) Registry() *cachepolicy.Registry {
	return c.registry
}

// Engine returns the singleton policy engine.
func (c *Container) Engine() *cachepolicy.Engine {
	return c.engine
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cacheinfra.Config {
	return c.config
}

// RegisterCached declares a read-through cached operation.
func (c *Container) RegisterCached(name string, argNames []string, template string, match *cachepolicy.MatchSpec, opts cachepolicy.Options) (*cachepolicy.OperationSpec, error) {
	return c.registry.Register(name, argNames, cachepolicy.ModeCache, template, match, opts)
}

// RegisterInvalidate declares a conditionally invalidating operation.
func (c *Container) RegisterInvalidate(name string, argNames []string, template string, match *cachepolicy.MatchSpec) (*cachepolicy.OperationSpec, error) {
	return c.registry.Register(name, argNames, cachepolicy.ModeInvalidate, template, match, nil)
}

// Intercept runs the container's engine for one invocation of spec.
func (c *Container) Intercept(ctx context.Context, spec *cachepolicy.OperationSpec, bindings keytemplate.Bindings, call cachepolicy.Call) (any, error) {
	return c.engine.Intercept(ctx, spec, bindings, call)
}
