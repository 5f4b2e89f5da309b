package detect

import (
	"errors"
	"fmt"
	"strings"
)

// TensorInfo describes one declared model output: its exported name and
// shape, in slot order.
type TensorInfo struct {
	Name  string
	Shape []int
}

// OutputSchema records which output slot holds which detection role, plus
// the model's detection capacity. Resolved once at model load and shared
// read-only by every inference call afterwards.
type OutputSchema struct {
	BoxesIndex    int
	ClassesIndex  int
	ScoresIndex   int
	CountIndex    int
	MaxDetections int
}

// ErrSchemaUnresolved means the model's outputs could not be assigned the
// four detection roles. The model is unusable for detection.
var ErrSchemaUnresolved = errors.New("output schema could not be resolved")

// Name suffixes used by common SSD-style detection model exports. Matched
// case-insensitively against the end of each tensor name.
var roleSuffixes = map[role][]string{
	roleBoxes:   {"detection_boxes", "postprocess", "postprocess:0", ":0"},
	roleClasses: {"detection_classes", "postprocess:1", ":1"},
	roleScores:  {"detection_scores", "postprocess:2", ":2"},
	roleCount:   {"num_detections", "postprocess:3", ":3"},
}

type role int

const (
	roleBoxes role = iota
	roleClasses
	roleScores
	roleCount
)

// ResolveSchema determines the role of each output slot. Pass 1 matches
// tensor names against known export suffixes, accepting a match only when
// the shape is structurally consistent with the role. Pass 2 falls back to
// pure shape classification; any leftover rank-2 [1,N] tensors are taken in
// encounter order as scores then classes. That ordering is an export
// convention, not a guarantee - best effort only.
func ResolveSchema(outputs []TensorInfo) (OutputSchema, error) {
	if s, ok := resolveByName(outputs); ok {
		return s, nil
	}
	if s, ok := resolveByShape(outputs); ok {
		return s, nil
	}
	return OutputSchema{}, fmt.Errorf("%w: %d output tensors", ErrSchemaUnresolved, len(outputs))
}

func resolveByName(outputs []TensorInfo) (OutputSchema, bool) {
	assigned := map[role]int{}
	for i, out := range outputs {
		name := strings.ToLower(out.Name)
		for r, suffixes := range roleSuffixes {
			if _, done := assigned[r]; done {
				continue
			}
			for _, suffix := range suffixes {
				if strings.HasSuffix(name, suffix) && shapeFitsRole(r, out.Shape) {
					assigned[r] = i
					break
				}
			}
		}
	}
	if len(assigned) != 4 || !distinct(assigned) {
		return OutputSchema{}, false
	}
	return buildSchema(assigned, outputs)
}

func resolveByShape(outputs []TensorInfo) (OutputSchema, bool) {
	assigned := map[role]int{}
	var rank2 []int
	for i, out := range outputs {
		switch {
		case shapeFitsRole(roleBoxes, out.Shape):
			if _, done := assigned[roleBoxes]; !done {
				assigned[roleBoxes] = i
			}
		case shapeFitsRole(roleCount, out.Shape):
			if _, done := assigned[roleCount]; !done {
				assigned[roleCount] = i
			}
		case shapeFitsRole(roleScores, out.Shape):
			rank2 = append(rank2, i)
		}
	}
	if len(rank2) < 2 {
		return OutputSchema{}, false
	}
	assigned[roleScores] = rank2[0]
	assigned[roleClasses] = rank2[1]
	if len(assigned) != 4 || !distinct(assigned) {
		return OutputSchema{}, false
	}
	return buildSchema(assigned, outputs)
}

// shapeFitsRole checks structural consistency: boxes are rank 3 [1,N,4],
// classes/scores rank 2 [1,N], count a single value ([1] or [1,1]).
func shapeFitsRole(r role, shape []int) bool {
	switch r {
	case roleBoxes:
		return len(shape) == 3 && shape[0] == 1 && shape[2] == 4 && shape[1] >= 1
	case roleClasses, roleScores:
		return len(shape) == 2 && shape[0] == 1 && shape[1] >= 1
	case roleCount:
		if len(shape) == 1 && shape[0] == 1 {
			return true
		}
		return len(shape) == 2 && shape[0] == 1 && shape[1] == 1
	}
	return false
}

func distinct(assigned map[role]int) bool {
	seen := map[int]bool{}
	for _, idx := range assigned {
		if seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

func buildSchema(assigned map[role]int, outputs []TensorInfo) (OutputSchema, bool) {
	boxes := outputs[assigned[roleBoxes]]
	if len(boxes.Shape) != 3 {
		return OutputSchema{}, false
	}
	maxDet := boxes.Shape[1]
	if maxDet < 1 {
		return OutputSchema{}, false
	}
	return OutputSchema{
		BoxesIndex:    assigned[roleBoxes],
		ClassesIndex:  assigned[roleClasses],
		ScoresIndex:   assigned[roleScores],
		CountIndex:    assigned[roleCount],
		MaxDetections: maxDet,
	}, true
}
