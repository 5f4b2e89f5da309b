package detect

// Invoker is the black-box inference engine: it takes one packed input
// tensor (RGB bytes, row-major, at the model's fixed input size) and fills
// the supplied per-slot output buffers in place. One call processes one
// image; no streaming.
type Invoker interface {
	// InputShape reports the model's fixed input dimensions.
	InputShape() (width, height, channels int)

	// OutputTensors lists the declared output tensors in slot order.
	OutputTensors() []TensorInfo

	// Invoke runs inference over input and copies each populated output
	// slot into the corresponding pre-allocated buffer.
	Invoke(input []byte, outputs map[int][]float32) error

	Close() error
}
