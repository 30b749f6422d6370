package libretro

import (
	"runtime"
	"unsafe"
)

// GoString copies a NUL-terminated string owned by the core.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

type pinnedString struct {
	value  string
	buf    []byte
	pinner runtime.Pinner
}

// StringCache owns strings lent to the core. A pointer returned by Put
// stays valid until the next Put for the same key or until Release.
type StringCache struct {
	entries map[string]*pinnedString
}

// NewStringCache creates an empty cache.
func NewStringCache() *StringCache {
	return &StringCache{entries: make(map[string]*pinnedString)}
}

// Put stores value under key and returns a pointer to its NUL-terminated
// bytes. Any string previously lent for key is released.
func (c *StringCache) Put(key, value string) *byte {
	if old, ok := c.entries[key]; ok {
		old.pinner.Unpin()
		delete(c.entries, key)
	}

	e := &pinnedString{value: value, buf: append([]byte(value), 0)}
	e.pinner.Pin(&e.buf[0])
	c.entries[key] = e
	return &e.buf[0]
}

// Get returns the value currently lent for key.
func (c *StringCache) Get(key string) (string, bool) {
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	return e.value, true
}

// Len returns the number of live entries.
func (c *StringCache) Len() int {
	return len(c.entries)
}

// Release unpins and forgets every entry.
func (c *StringCache) Release() {
	for key, e := range c.entries {
		e.pinner.Unpin()
		delete(c.entries, key)
	}
}
