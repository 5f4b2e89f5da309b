package detect

import "math"

// DefaultConfidenceThreshold filters out low-scoring candidates before NMS.
const DefaultConfidenceThreshold = 0.45

// Detection is one decoded bounding box in original-image pixel space.
// Invariant: Right > Left and Bottom > Top.
type Detection struct {
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Right      float64 `json:"right"`
	Bottom     float64 `json:"bottom"`
	ClassID    int     `json:"class_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// DetectionSet is the full result for one frame: the surviving detections
// and the pixel dimensions of the image they were computed against. It is
// replaced wholesale per frame, never mutated incrementally.
type DetectionSet struct {
	Detections  []Detection `json:"detections"`
	ImageWidth  int         `json:"image_width"`
	ImageHeight int         `json:"image_height"`
}

// RawTensors holds one inference call's raw outputs. Boxes are packed
// yMin,xMin,yMax,xMax quadruples of normalized floats; Classes and Scores
// run parallel to them. Discarded after decoding.
type RawTensors struct {
	Boxes   []float32
	Classes []float32
	Scores  []float32
	Count   int
}

// DecodeDetections converts raw tensors into pixel-space detections. Entries
// at or below the confidence threshold are skipped, boxes are denormalized
// against the image dimensions and clamped, and degenerate boxes dropped.
// Output order follows the model's own detection order; NMS re-sorts later.
func DecodeDetections(raw RawTensors, imgWidth, imgHeight int, threshold float64) []Detection {
	w := float64(imgWidth)
	h := float64(imgHeight)

	var out []Detection
	for i := 0; i < raw.Count; i++ {
		if (i+1)*4 > len(raw.Boxes) || i >= len(raw.Classes) || i >= len(raw.Scores) {
			continue
		}
		score := float64(raw.Scores[i])
		if score <= threshold {
			continue
		}

		yMin := float64(raw.Boxes[i*4])
		xMin := float64(raw.Boxes[i*4+1])
		yMax := float64(raw.Boxes[i*4+2])
		xMax := float64(raw.Boxes[i*4+3])

		left := clamp(xMin*w, 0, w)
		top := clamp(yMin*h, 0, h)
		right := clamp(xMax*w, 0, w)
		bottom := clamp(yMax*h, 0, h)

		if right <= left || bottom <= top {
			continue
		}

		classID := int(math.Round(float64(raw.Classes[i])))
		out = append(out, Detection{
			Left:       left,
			Top:        top,
			Right:      right,
			Bottom:     bottom,
			ClassID:    classID,
			Label:      ClassLabel(classID),
			Confidence: score,
		})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
