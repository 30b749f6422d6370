// Package frontend drives a libretro core: it owns the session lifecycle,
// answers the core's environment queries, steps the core at a fixed rate
// while moving video, audio and input across the call boundary, and
// persists battery saves and save states.
package frontend

import "errors"

var (
	// ErrRomNotFound is returned when the ROM path does not exist.
	ErrRomNotFound = errors.New("ROM not found")

	// ErrLoadGame is returned when the core rejects the game.
	ErrLoadGame = errors.New("core failed to load game")

	// ErrSerialization is returned when a core reports a zero state size
	// or fails to serialize or unserialize.
	ErrSerialization = errors.New("save state serialization failed")

	// ErrUnmappedExtension is returned when no core kind is known for a
	// ROM's extension.
	ErrUnmappedExtension = errors.New("no core mapped to extension")

	// ErrNoCorePath is returned when a core kind was selected but no core
	// library is configured for it.
	ErrNoCorePath = errors.New("no core library configured")

	// ErrNoSession is returned by operations that need a loaded game.
	ErrNoSession = errors.New("no game running")

	// ErrReentrant is returned when a session operation is attempted from
	// inside a core callback.
	ErrReentrant = errors.New("called from inside a core callback")
)
