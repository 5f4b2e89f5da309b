package detect

import (
	"errors"
	"fmt"
	"runtime"

	tflite "github.com/mattn/go-tflite"
)

// TFLiteInvoker backs the Invoker interface with a TensorFlow Lite
// interpreter. The interpreter is not reentrant; the scheduler upstream
// guarantees one inference in flight at a time.
type TFLiteInvoker struct {
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
}

// NewTFLiteInvoker loads the model file and allocates its tensors.
func NewTFLiteInvoker(modelPath string) (*TFLiteInvoker, error) {
	model := tflite.NewModelFromFile(modelPath)
	if model == nil {
		return nil, fmt.Errorf("failed to load model from %s", modelPath)
	}

	options := tflite.NewInterpreterOptions()
	if options == nil {
		model.Delete()
		return nil, errors.New("failed to create interpreter options")
	}
	options.SetNumThread(runtime.NumCPU())

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, errors.New("failed to create interpreter")
	}

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		options.Delete()
		model.Delete()
		return nil, errors.New("failed to allocate tensors")
	}

	return &TFLiteInvoker{
		model:       model,
		options:     options,
		interpreter: interpreter,
	}, nil
}

// InputShape reports the model's fixed input dimensions ([1,h,w,c]).
func (t *TFLiteInvoker) InputShape() (width, height, channels int) {
	input := t.interpreter.GetInputTensor(0)
	return input.Dim(2), input.Dim(1), input.Dim(3)
}

// OutputTensors lists the declared output tensors in slot order.
func (t *TFLiteInvoker) OutputTensors() []TensorInfo {
	count := t.interpreter.GetOutputTensorCount()
	infos := make([]TensorInfo, 0, count)
	for i := 0; i < count; i++ {
		tensor := t.interpreter.GetOutputTensor(i)
		shape := make([]int, tensor.NumDims())
		for d := 0; d < tensor.NumDims(); d++ {
			shape[d] = tensor.Dim(d)
		}
		infos = append(infos, TensorInfo{Name: tensor.Name(), Shape: shape})
	}
	return infos
}

// Invoke copies the packed RGB input into the interpreter, runs it, and
// fills the requested output buffers.
func (t *TFLiteInvoker) Invoke(input []byte, outputs map[int][]float32) error {
	in := t.interpreter.GetInputTensor(0)
	if status := in.CopyFromBuffer(input); status != tflite.OK {
		return errors.New("failed to copy input tensor")
	}

	if status := t.interpreter.Invoke(); status != tflite.OK {
		return errors.New("inference invocation failed")
	}

	for slot, buf := range outputs {
		if slot < 0 || slot >= t.interpreter.GetOutputTensorCount() {
			return fmt.Errorf("output slot %d out of range", slot)
		}
		tensor := t.interpreter.GetOutputTensor(slot)
		if tensor.Type() != tflite.Float32 {
			return fmt.Errorf("output slot %d has unsupported type %v", slot, tensor.Type())
		}
		copy(buf, tensor.Float32s())
	}
	return nil
}

// Close releases the interpreter and model.
func (t *TFLiteInvoker) Close() error {
	t.interpreter.Delete()
	t.options.Delete()
	t.model.Delete()
	return nil
}
