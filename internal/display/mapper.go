// Package display maps detections from source-image pixel space onto a
// display canvas using contain-fit letterboxing.
package display

import (
	"fmt"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/detect"
)

// Approximate glyph metrics for label extent estimation. The canvas
// renderer measures text itself; these only keep labels on screen.
const (
	DefaultLabelCharWidth = 8.0
	DefaultLabelHeight    = 16.0
)

// Placement is one detection positioned in canvas coordinates, with the
// anchor of its caption already resolved.
type Placement struct {
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Right      float64 `json:"right"`
	Bottom     float64 `json:"bottom"`
	LabelX     float64 `json:"label_x"`
	LabelY     float64 `json:"label_y"`
	Caption    string  `json:"caption"`
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
}

// Mapper converts detection sets into canvas placements. The image is
// fitted entirely inside the canvas, preserving aspect ratio and centering
// the letterboxed result.
type Mapper struct {
	labelCharWidth float64
	labelHeight    float64
}

// NewMapper returns a mapper with the given glyph metrics. Non-positive
// values fall back to the defaults.
func NewMapper(labelCharWidth, labelHeight float64) *Mapper {
	if labelCharWidth <= 0 {
		labelCharWidth = DefaultLabelCharWidth
	}
	if labelHeight <= 0 {
		labelHeight = DefaultLabelHeight
	}
	return &Mapper{labelCharWidth: labelCharWidth, labelHeight: labelHeight}
}

// Map projects every detection in the set onto a canvas of the given size.
// It returns nil when the set is empty or when either the canvas or the
// source image has zero area.
func (m *Mapper) Map(set detect.DetectionSet, canvasWidth, canvasHeight int) []Placement {
	if len(set.Detections) == 0 {
		return nil
	}
	if canvasWidth <= 0 || canvasHeight <= 0 || set.ImageWidth <= 0 || set.ImageHeight <= 0 {
		return nil
	}

	cw := float64(canvasWidth)
	ch := float64(canvasHeight)
	iw := float64(set.ImageWidth)
	ih := float64(set.ImageHeight)

	scale := cw / iw
	if s := ch / ih; s < scale {
		scale = s
	}
	offsetX := (cw - iw*scale) / 2
	offsetY := (ch - ih*scale) / 2

	out := make([]Placement, 0, len(set.Detections))
	for _, d := range set.Detections {
		p := Placement{
			Left:       d.Left*scale + offsetX,
			Top:        d.Top*scale + offsetY,
			Right:      d.Right*scale + offsetX,
			Bottom:     d.Bottom*scale + offsetY,
			Caption:    fmt.Sprintf("%s %.0f%%", d.Label, d.Confidence*100),
			ClassID:    d.ClassID,
			Confidence: d.Confidence,
		}
		p.LabelX, p.LabelY = m.placeLabel(p, cw, ch)
		out = append(out, p)
	}
	return out
}

// placeLabel anchors the caption above the box, drops it below when the
// box touches the top edge, and clamps it inside the canvas either way.
func (m *Mapper) placeLabel(p Placement, canvasWidth, canvasHeight float64) (x, y float64) {
	x = p.Left
	labelWidth := float64(len(p.Caption)) * m.labelCharWidth
	if x+labelWidth > canvasWidth {
		x = canvasWidth - labelWidth
	}
	if x < 0 {
		x = 0
	}

	y = p.Top - m.labelHeight
	if y < 0 {
		y = p.Bottom
	}
	if y+m.labelHeight > canvasHeight {
		y = canvasHeight - m.labelHeight
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
