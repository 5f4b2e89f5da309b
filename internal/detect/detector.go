package detect

import (
	"fmt"
	"sync/atomic"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/codec"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
)

// Detector runs the full per-frame pipeline: decode the JPEG payload to the
// model's input size, invoke the model, decode the raw tensors and suppress
// duplicates. The output schema is resolved once at construction; a model
// whose outputs cannot be assigned the four detection roles is rejected
// here and never invoked.
type Detector struct {
	invoker Invoker
	codec   codec.Codec
	schema  OutputSchema
	logger  *logger.Logger

	confidenceThreshold float64
	iouThreshold        float64
	inputWidth          int
	inputHeight         int

	// Reused across calls; the scheduler guarantees single flight.
	boxesBuf   []float32
	classesBuf []float32
	scoresBuf  []float32
	countBuf   []float32

	decodeFailures atomic.Int64
}

// NewDetector resolves the model's output schema and prepares the reusable
// tensor buffers. A schema resolution failure is fatal for the detection
// feature: the caller must surface it at load time and not attempt
// inference.
func NewDetector(invoker Invoker, imageCodec codec.Codec, log *logger.Logger, confidenceThreshold, iouThreshold float64) (*Detector, error) {
	outputs := invoker.OutputTensors()
	schema, err := ResolveSchema(outputs)
	if err != nil {
		return nil, fmt.Errorf("model unusable for detection: %w", err)
	}

	w, h, c := invoker.InputShape()
	if w <= 0 || h <= 0 || c != 3 {
		return nil, fmt.Errorf("unexpected model input shape %dx%dx%d", w, h, c)
	}

	log.Info("Output schema resolved: boxes=%d classes=%d scores=%d count=%d maxDetections=%d",
		schema.BoxesIndex, schema.ClassesIndex, schema.ScoresIndex, schema.CountIndex, schema.MaxDetections)

	return &Detector{
		invoker:             invoker,
		codec:               imageCodec,
		schema:              schema,
		logger:              log,
		confidenceThreshold: confidenceThreshold,
		iouThreshold:        iouThreshold,
		inputWidth:          w,
		inputHeight:         h,
		boxesBuf:            make([]float32, schema.MaxDetections*4),
		classesBuf:          make([]float32, schema.MaxDetections),
		scoresBuf:           make([]float32, schema.MaxDetections),
		countBuf:            make([]float32, 1),
	}, nil
}

// Schema returns the resolved output schema.
func (d *Detector) Schema() OutputSchema {
	return d.schema
}

// DecodeFailures reports how many payloads failed image decoding so far.
func (d *Detector) DecodeFailures() int64 {
	return d.decodeFailures.Load()
}

// Detect runs one frame through the pipeline. A codec failure is transient:
// it is counted and returned wrapped in codec.ErrDecode so the caller can
// skip the frame and continue.
func (d *Detector) Detect(payload []byte) (DetectionSet, error) {
	rgb, origW, origH, err := d.codec.Decode(payload, d.inputWidth, d.inputHeight)
	if err != nil {
		d.decodeFailures.Add(1)
		return DetectionSet{}, err
	}

	outputs := map[int][]float32{
		d.schema.BoxesIndex:   d.boxesBuf,
		d.schema.ClassesIndex: d.classesBuf,
		d.schema.ScoresIndex:  d.scoresBuf,
		d.schema.CountIndex:   d.countBuf,
	}
	if err := d.invoker.Invoke(rgb, outputs); err != nil {
		return DetectionSet{}, fmt.Errorf("inference failed: %w", err)
	}

	count := int(d.countBuf[0])
	if count < 0 {
		count = 0
	}
	if count > d.schema.MaxDetections {
		count = d.schema.MaxDetections
	}

	raw := RawTensors{
		Boxes:   d.boxesBuf,
		Classes: d.classesBuf,
		Scores:  d.scoresBuf,
		Count:   count,
	}
	candidates := DecodeDetections(raw, origW, origH, d.confidenceThreshold)
	kept := Suppress(candidates, d.iouThreshold)

	return DetectionSet{
		Detections:  kept,
		ImageWidth:  origW,
		ImageHeight: origH,
	}, nil
}

// Close releases the underlying model.
func (d *Detector) Close() error {
	return d.invoker.Close()
}
