package stream

import "bytes"

// MaxBufferSize is the hard cap on accumulated stream bytes (3 MiB). When an
// append pushes past it the buffer is trimmed back to its last boundary
// marker, or cleared when no marker is present. Frames lost that way are
// gone for good - bounded memory wins over completeness on a stalled or
// garbage-producing camera.
const MaxBufferSize = 3 * 1024 * 1024

// RingBuffer accumulates raw stream bytes for the demultiplexer. It is owned
// by a single session goroutine and is not safe for concurrent use.
type RingBuffer struct {
	buf    []byte
	marker []byte
}

// NewRingBuffer creates a buffer that trims against the given boundary
// marker when it overflows.
func NewRingBuffer(marker []byte) *RingBuffer {
	return &RingBuffer{marker: marker}
}

// Append copies chunk into the buffer, applying the overflow policy.
func (r *RingBuffer) Append(chunk []byte) {
	r.buf = append(r.buf, chunk...)
	if len(r.buf) <= MaxBufferSize {
		return
	}
	last := bytes.LastIndex(r.buf, r.marker)
	if last < 0 {
		r.buf = r.buf[:0]
		return
	}
	r.buf = append(r.buf[:0], r.buf[last:]...)
}

// Index returns the first offset >= from where pattern occurs, or -1.
func (r *RingBuffer) Index(pattern []byte, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(r.buf)-len(pattern) {
		return -1
	}
	i := bytes.Index(r.buf[from:], pattern)
	if i < 0 {
		return -1
	}
	return from + i
}

// LastIndex returns the last occurrence of pattern, or -1.
func (r *RingBuffer) LastIndex(pattern []byte) int {
	return bytes.LastIndex(r.buf, pattern)
}

// DiscardPrefix drops the first n bytes, shifting the remainder to offset 0.
func (r *RingBuffer) DiscardPrefix(n int) {
	if n <= 0 {
		return
	}
	if n >= len(r.buf) {
		r.buf = r.buf[:0]
		return
	}
	r.buf = append(r.buf[:0], r.buf[n:]...)
}

// Range returns a copy of buf[from:to].
func (r *RingBuffer) Range(from, to int) []byte {
	out := make([]byte, to-from)
	copy(out, r.buf[from:to])
	return out
}

// Len reports the number of buffered bytes.
func (r *RingBuffer) Len() int {
	return len(r.buf)
}
