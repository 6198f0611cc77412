package cache

import (
	"context"
	"errors"
	"time"

	"github.com/moinlabs/authrank/store"
)

// Func is the shape of a wrappable single-argument read operation.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// Hooks receives cache lifecycle notifications. All fields are optional.
// Hooks must not block; they run inline on the request path.
type Hooks struct {
	OnHit        func(key string)
	OnMiss       func(key string)
	OnStoreError func(op, key string, err error)
}

// Cache carries the store handle and hooks shared by all wrapped operations.
type Cache struct {
	store *store.Store
	hooks Hooks
}

// Option configures a Cache during construction.
type Option func(*Cache)

// WithHooks installs lifecycle hooks.
func WithHooks(hooks Hooks) Option {
	return func(c *Cache) {
		c.hooks = hooks
	}
}

// New creates a Cache over the given store client.
func New(st *store.Store, opts ...Option) *Cache {
	c := &Cache{store: st}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the cache key for an operation prefix and its designated
// argument. Only string arguments contribute a suffix; any other type maps
// to the bare prefix. Pure function: a stored entry's key is always
// reconstructible from (prefix, argument).
func Key(prefix string, arg any) string {
	if s, ok := arg.(string); ok {
		return prefix + s
	}
	return prefix
}

// Wrap decorates fn with cache-aside behavior under the given key prefix and
// TTL. The operation's sole argument is the designated key argument.
func Wrap[A, R any](c *Cache, prefix string, ttl time.Duration, fn Func[A, R]) Func[A, R] {
	return func(ctx context.Context, arg A) (R, error) {
		return lookupOrInvoke(ctx, c, Key(prefix, any(arg)), ttl, func(ctx context.Context) (R, error) {
			return fn(ctx, arg)
		})
	}
}

// Wrap2 decorates a two-argument operation. argIndex selects which argument
// (0 or 1) contributes the key suffix; an out-of-range index behaves like a
// non-string argument and yields the bare prefix.
func Wrap2[A, B, R any](
	c *Cache,
	prefix string,
	ttl time.Duration,
	argIndex int,
	fn func(ctx context.Context, a A, b B) (R, error),
) func(ctx context.Context, a A, b B) (R, error) {
	return func(ctx context.Context, a A, b B) (R, error) {
		var keyArg any
		switch argIndex {
		case 0:
			keyArg = a
		case 1:
			keyArg = b
		}

		return lookupOrInvoke(ctx, c, Key(prefix, keyArg), ttl, func(ctx context.Context) (R, error) {
			return fn(ctx, a, b)
		})
	}
}

func lookupOrInvoke[R any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	invoke func(ctx context.Context) (R, error),
) (R, error) {
	var cached R
	found, err := c.store.Get(ctx, key, &cached)
	switch {
	case err == nil && found:
		c.hit(key)
		return cached, nil
	case err != nil && errors.Is(err, store.ErrUnavailable):
		// Fail-open: serve the uncached result and skip the write-back,
		// since the store is known to be down.
		c.storeError("get", key, err)
		return invoke(ctx)
	case err != nil:
		// Undecodable entry. Treat as a miss; the write below overwrites it.
		c.storeError("decode", key, err)
	}

	c.miss(key)
	result, err := invoke(ctx)
	if err != nil {
		return result, err
	}

	if err := c.store.Set(ctx, key, result, ttl); err != nil {
		c.storeError("set", key, err)
	}

	return result, nil
}

func (c *Cache) hit(key string) {
	if c.hooks.OnHit != nil {
		c.hooks.OnHit(key)
	}
}

func (c *Cache) miss(key string) {
	if c.hooks.OnMiss != nil {
		c.hooks.OnMiss(key)
	}
}

func (c *Cache) storeError(op, key string, err error) {
	if c.hooks.OnStoreError != nil {
		c.hooks.OnStoreError(op, key, err)
	}
}
