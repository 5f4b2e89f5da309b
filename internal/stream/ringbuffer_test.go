package stream

import (
	"bytes"
	"testing"
)

func TestRingBufferAppendAndIndex(t *testing.T) {
	r := NewRingBuffer([]byte("--mk"))
	r.Append([]byte("hello--mkworld"))

	if r.Len() != 14 {
		t.Fatalf("Len() = %d, expected 14", r.Len())
	}

	tests := []struct {
		pattern  string
		from     int
		expected int
	}{
		{"--mk", 0, 5},
		{"--mk", 5, 5},
		{"--mk", 6, -1},
		{"world", 0, 9},
		{"hello", 1, -1},
		{"absent", 0, -1},
	}

	for _, tt := range tests {
		if got := r.Index([]byte(tt.pattern), tt.from); got != tt.expected {
			t.Errorf("Index(%q, %d) = %d, expected %d", tt.pattern, tt.from, got, tt.expected)
		}
	}
}

func TestRingBufferIndexFromBeyondEnd(t *testing.T) {
	r := NewRingBuffer([]byte("--mk"))
	r.Append([]byte("abcdef"))

	// from beyond len-patternLen must always miss
	if got := r.Index([]byte("ef"), 5); got != -1 {
		t.Errorf("Index beyond searchable range = %d, expected -1", got)
	}
	if got := r.Index([]byte("ef"), 4); got != 4 {
		t.Errorf("Index at last possible offset = %d, expected 4", got)
	}
}

func TestRingBufferDiscardPrefix(t *testing.T) {
	r := NewRingBuffer([]byte("--mk"))
	r.Append([]byte("0123456789"))

	r.DiscardPrefix(4)
	if r.Len() != 6 {
		t.Fatalf("Len() after discard = %d, expected 6", r.Len())
	}
	if got := r.Range(0, 6); !bytes.Equal(got, []byte("456789")) {
		t.Errorf("Range(0,6) = %q, expected %q", got, "456789")
	}

	r.DiscardPrefix(100)
	if r.Len() != 0 {
		t.Errorf("Len() after over-discard = %d, expected 0", r.Len())
	}
}

func TestRingBufferOverflowTrimsToLastMarker(t *testing.T) {
	marker := []byte(BoundaryMarker)
	r := NewRingBuffer(marker)

	filler := make([]byte, MaxBufferSize-100)
	r.Append(filler)
	r.Append(marker)
	tail := make([]byte, 4096)
	r.Append(tail)

	expected := len(marker) + len(tail)
	if r.Len() != expected {
		t.Errorf("Len() after overflow trim = %d, expected %d", r.Len(), expected)
	}
	if got := r.Index(marker, 0); got != 0 {
		t.Errorf("marker position after trim = %d, expected 0", got)
	}
}

func TestRingBufferOverflowWithoutMarkerClears(t *testing.T) {
	r := NewRingBuffer([]byte(BoundaryMarker))

	chunk := make([]byte, 1024*1024)
	for i := range chunk {
		chunk[i] = 0xAB
	}
	for i := 0; i < 4; i++ {
		r.Append(chunk)
	}

	if r.Len() != 0 {
		t.Errorf("Len() after markerless overflow = %d, expected 0", r.Len())
	}
}
