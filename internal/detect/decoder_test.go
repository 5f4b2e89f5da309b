package detect

import (
	"math"
	"testing"
)

func TestDecodeDetectionsThreshold(t *testing.T) {
	raw := RawTensors{
		Boxes: []float32{
			0.1, 0.1, 0.5, 0.5,
			0.2, 0.2, 0.6, 0.6,
			0.3, 0.3, 0.7, 0.7,
		},
		Classes: []float32{0, 2, 16},
		Scores:  []float32{0.9, 0.3, 0.95},
		Count:   3,
	}

	out := DecodeDetections(raw, 640, 480, DefaultConfidenceThreshold)
	if len(out) != 2 {
		t.Fatalf("got %d detections, expected 2", len(out))
	}
	if out[0].Label != "person" {
		t.Errorf("first label = %q, expected person", out[0].Label)
	}
	if out[1].Label != "dog" {
		t.Errorf("second label = %q, expected dog", out[1].Label)
	}
}

func TestDecodeDetectionsExactThresholdSkipped(t *testing.T) {
	raw := RawTensors{
		Boxes:   []float32{0.1, 0.1, 0.5, 0.5},
		Classes: []float32{0},
		Scores:  []float32{0.45},
		Count:   1,
	}

	if out := DecodeDetections(raw, 640, 480, 0.45); len(out) != 0 {
		t.Fatalf("score equal to threshold must be skipped, got %d detections", len(out))
	}
}

func TestDecodeDetectionsDenormalization(t *testing.T) {
	raw := RawTensors{
		Boxes:   []float32{0.25, 0.125, 0.75, 0.875},
		Classes: []float32{2},
		Scores:  []float32{0.8},
		Count:   1,
	}

	out := DecodeDetections(raw, 640, 480, DefaultConfidenceThreshold)
	if len(out) != 1 {
		t.Fatalf("got %d detections, expected 1", len(out))
	}

	d := out[0]
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"Left", d.Left, 80},
		{"Top", d.Top, 120},
		{"Right", d.Right, 560},
		{"Bottom", d.Bottom, 360},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-6 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.want)
		}
	}
	if d.ClassID != 2 || d.Label != "car" {
		t.Errorf("class = %d %q, expected 2 car", d.ClassID, d.Label)
	}
}

func TestDecodeDetectionsClampsToImage(t *testing.T) {
	raw := RawTensors{
		Boxes:   []float32{-0.2, -0.1, 1.3, 1.1},
		Classes: []float32{0},
		Scores:  []float32{0.9},
		Count:   1,
	}

	out := DecodeDetections(raw, 100, 200, DefaultConfidenceThreshold)
	if len(out) != 1 {
		t.Fatalf("got %d detections, expected 1", len(out))
	}
	d := out[0]
	if d.Left != 0 || d.Top != 0 || d.Right != 100 || d.Bottom != 200 {
		t.Errorf("box not clamped to image bounds: %+v", d)
	}
}

func TestDecodeDetectionsDropsDegenerateBoxes(t *testing.T) {
	raw := RawTensors{
		Boxes: []float32{
			0.5, 0.5, 0.5, 0.7, // zero height
			0.2, 0.6, 0.4, 0.6, // zero width
			0.4, 0.4, 0.2, 0.2, // inverted
		},
		Classes: []float32{0, 0, 0},
		Scores:  []float32{0.9, 0.9, 0.9},
		Count:   3,
	}

	if out := DecodeDetections(raw, 640, 480, DefaultConfidenceThreshold); len(out) != 0 {
		t.Fatalf("degenerate boxes must be dropped, got %d detections", len(out))
	}
}

func TestDecodeDetectionsRoundsClassID(t *testing.T) {
	raw := RawTensors{
		Boxes:   []float32{0.1, 0.1, 0.5, 0.5},
		Classes: []float32{15.97},
		Scores:  []float32{0.9},
		Count:   1,
	}

	out := DecodeDetections(raw, 640, 480, DefaultConfidenceThreshold)
	if len(out) != 1 {
		t.Fatalf("got %d detections, expected 1", len(out))
	}
	if out[0].ClassID != 16 || out[0].Label != "dog" {
		t.Errorf("class = %d %q, expected 16 dog", out[0].ClassID, out[0].Label)
	}
}

func TestDecodeDetectionsCountBeyondBuffers(t *testing.T) {
	// Count claims more entries than the tensors carry; extras are skipped
	// without panicking.
	raw := RawTensors{
		Boxes:   []float32{0.1, 0.1, 0.5, 0.5},
		Classes: []float32{0},
		Scores:  []float32{0.9},
		Count:   5,
	}

	out := DecodeDetections(raw, 640, 480, DefaultConfidenceThreshold)
	if len(out) != 1 {
		t.Fatalf("got %d detections, expected 1", len(out))
	}
}

func TestClassLabelFallback(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, "person"},
		{79, "toothbrush"},
		{80, "ClassID 80"},
		{-1, "ClassID -1"},
		{200, "ClassID 200"},
	}
	for _, tt := range tests {
		if got := ClassLabel(tt.id); got != tt.want {
			t.Errorf("ClassLabel(%d) = %q, expected %q", tt.id, got, tt.want)
		}
	}
}
