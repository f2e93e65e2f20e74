package cache

import (
	"errors"
	"time"
)

// LayeredCache stacks caches from fastest to slowest. Reads stop at the
// first hit and copy the value into every faster layer; writes go to all.
type LayeredCache struct {
	layers []Cache
}

// NewLayered stacks the given caches, fastest first
func NewLayered(layers ...Cache) *LayeredCache {
	return &LayeredCache{layers: layers}
}

// Get returns the value from the fastest layer holding it
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		val, found := layer.Get(key)
		if !found {
			continue
		}
		for _, faster := range c.layers[:i] {
			_ = faster.Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set writes the value to every layer. A zero ttl uses each layer's own
// default. A failing layer does not stop the others.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	errs := make([]error, len(c.layers))
	for i, layer := range c.layers {
		errs[i] = layer.Set(key, value, ttl)
	}
	return errors.Join(errs...)
}

// Delete removes the key from every layer
func (c *LayeredCache) Delete(key string) error {
	errs := make([]error, len(c.layers))
	for i, layer := range c.layers {
		errs[i] = layer.Delete(key)
	}
	return errors.Join(errs...)
}

// Clear empties every layer
func (c *LayeredCache) Clear() error {
	errs := make([]error, len(c.layers))
	for i, layer := range c.layers {
		errs[i] = layer.Clear()
	}
	return errors.Join(errs...)
}
