package cache

import "errors"

// ErrCacheMiss is returned by [GetJSON] when no usable entry exists.
var ErrCacheMiss = errors.New("cache miss")
