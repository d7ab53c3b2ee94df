// Package di implements a small typed service container. Modules register
// lazily-constructed services under string keys; typed tokens give callers
// compile-time safety over the untyped registry.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get resolves the service registered under key, constructing it on
	// first use. Panics on unknown keys; registration errors are
	// programming errors, not runtime conditions.
	Get(key string) any
}

// Container is the write side: modules register factories during startup.
type Container interface {
	ServiceRegistry
	// Register registers an already-constructed service.
	Register(key string, value any)
	// RegisterFactory registers a lazily-constructed service.
	RegisterFactory(key string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	factories map[string]func(ServiceRegistry) any
	instances map[string]any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		factories: make(map[string]func(ServiceRegistry) any),
		instances: make(map[string]any),
	}
}

func (c *container) Register(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[key] = value
}

func (c *container) RegisterFactory(key string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[key] = factory
}

func (c *container) Get(key string) any {
	c.mu.Lock()
	if inst, ok := c.instances[key]; ok {
		c.mu.Unlock()
		return inst
	}
	factory, ok := c.factories[key]
	c.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("di: no service registered for %q", key))
	}

	inst := factory(c)

	c.mu.Lock()
	c.instances[key] = inst
	c.mu.Unlock()
	return inst
}

// Token is a typed handle to a registered service.
type Token[T any] struct {
	key string
}

// NewToken creates a token with a unique key.
func NewToken[T any](key string) Token[T] {
	return Token[T]{key: key}
}

// Key returns the registry key behind the token.
func (t Token[T]) Key() string { return t.key }

// RegisterToken registers a typed factory under the token's key.
func RegisterToken[T any](c Container, tok Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(tok.key, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the token's service with its static type.
func GetToken[T any](sr ServiceRegistry, tok Token[T]) T {
	return sr.Get(tok.key).(T)
}
