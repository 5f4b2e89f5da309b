package detect

import "sort"

// DefaultIoUThreshold is the overlap above which a lower-confidence box is
// suppressed.
const DefaultIoUThreshold = 0.4

// Suppress performs greedy non-maximum suppression: detections are sorted
// by confidence descending, then every survivor removes later boxes whose
// IoU with it exceeds the threshold. Suppression is class-agnostic - a
// confident box removes overlapping boxes of other classes too. That
// mirrors the original controller's behavior; it can eat a true detection
// that happens to overlap one of a different class.
func Suppress(detections []Detection, iouThreshold float64) []Detection {
	if len(detections) == 0 {
		return nil
	}

	sorted := make([]Detection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	removed := make([]bool, len(sorted))
	var out []Detection
	for i := range sorted {
		if removed[i] {
			continue
		}
		out = append(out, sorted[i])
		for j := i + 1; j < len(sorted); j++ {
			if removed[j] {
				continue
			}
			if IoU(sorted[i], sorted[j]) > iouThreshold {
				removed[j] = true
			}
		}
	}
	return out
}

// IoU computes intersection-over-union of two axis-aligned boxes. Defined
// as 0 when the union has zero area.
func IoU(a, b Detection) float64 {
	interW := minf(a.Right, b.Right) - maxf(a.Left, b.Left)
	interH := minf(a.Bottom, b.Bottom) - maxf(a.Top, b.Top)
	if interW < 0 {
		interW = 0
	}
	if interH < 0 {
		interH = 0
	}
	inter := interW * interH

	areaA := (a.Right - a.Left) * (a.Bottom - a.Top)
	areaB := (b.Right - b.Left) * (b.Bottom - b.Top)
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
