package host

import (
	"io"
	"sync"
)

// AudioRingBuffer is a fixed-size byte FIFO between the frame loop and the
// audio device. Writes never block and overwrite the oldest bytes when
// full; reads block until data arrives or the buffer is closed.
type AudioRingBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	r      int
	count  int
	closed bool
}

// NewAudioRingBuffer creates a buffer holding capacity bytes.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	rb := &AudioRingBuffer{buf: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write appends p, dropping the oldest buffered bytes on overflow.
func (rb *AudioRingBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed || len(p) == 0 {
		return
	}

	size := len(rb.buf)
	if len(p) >= size {
		copy(rb.buf, p[len(p)-size:])
		rb.r = 0
		rb.count = size
		rb.cond.Broadcast()
		return
	}

	if over := rb.count + len(p) - size; over > 0 {
		rb.r = (rb.r + over) % size
		rb.count -= over
	}
	w := (rb.r + rb.count) % size
	n := copy(rb.buf[w:], p)
	copy(rb.buf, p[n:])
	rb.count += len(p)
	rb.cond.Broadcast()
}

// Read implements io.Reader for the audio device. It returns io.EOF once
// the buffer is closed and drained.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 && !rb.closed {
		rb.cond.Wait()
	}
	if rb.count == 0 {
		return 0, io.EOF
	}

	n := min(len(p), rb.count)
	first := copy(p[:n], rb.buf[rb.r:])
	copy(p[first:n], rb.buf)
	rb.r = (rb.r + n) % len(rb.buf)
	rb.count -= n
	return n, nil
}

// Buffered returns the number of unread bytes.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Free returns how many bytes can be written without dropping audio.
func (rb *AudioRingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.buf) - rb.count
}

// Clear discards all unread bytes.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.r = 0
	rb.count = 0
}

// Close wakes blocked readers. Later writes are ignored.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
