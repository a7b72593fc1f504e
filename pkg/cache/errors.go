package cache

import "errors"

// ErrClosed is returned by operations on a closed in-process cache.
var ErrClosed = errors.New("cache closed")
