package embedder

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

var runtimeLibOverride string

// SetRuntimeLibrary overrides where the ONNX Runtime shared library is
// loaded from. Must be called before the first NewONNX; later calls
// have no effect. By default libonnxruntime.so is expected alongside
// the model file.
func SetRuntimeLibrary(path string) {
	runtimeLibOverride = path
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// onnxSession wraps a DynamicAdvancedSession for BERT-style encoders.
// Some MiniLM exports omit token_type_ids; the session adapts to either shape.
type onnxSession struct {
	session      *ort.DynamicAdvancedSession
	inputNames   []string
	outputName   string
	hiddenDim    int64
	wantsTypeIDs bool
}

// newONNXSession loads the model and creates an inference session, validating
// input/output tensor names and shapes. The ONNX Runtime shared library is
// expected alongside the model file.
func newONNXSession(modelPath string) (*onnxSession, error) {
	libPath := runtimeLibOverride
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: read model info: %w", err)
	}

	inputNames, wantsTypeIDs, err := resolveInputs(inputs)
	if err != nil {
		return nil, err
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	outputName := outputs[0].Name
	dims := outputs[0].Dimensions
	if len(dims) != 3 {
		return nil, fmt.Errorf("onnx: expected [batch, seq, dim] output tensor, got %v", dims)
	}
	hiddenDim := dims[2]
	if hiddenDim <= 0 {
		return nil, fmt.Errorf("onnx: model reports non-positive hidden dim %d", hiddenDim)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputName}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}

	return &onnxSession{
		session:      session,
		inputNames:   inputNames,
		outputName:   outputName,
		hiddenDim:    hiddenDim,
		wantsTypeIDs: wantsTypeIDs,
	}, nil
}

// resolveInputs checks for BERT-style input tensors. input_ids and
// attention_mask are required; token_type_ids is fed only when present.
func resolveInputs(inputs []ort.InputOutputInfo) (names []string, wantsTypeIDs bool, err error) {
	present := make(map[string]bool, len(inputs))
	for _, inp := range inputs {
		present[inp.Name] = true
	}
	for _, name := range []string{"input_ids", "attention_mask"} {
		if !present[name] {
			return nil, false, fmt.Errorf("onnx: model missing required input %q", name)
		}
	}
	names = []string{"input_ids", "attention_mask"}
	if present["token_type_ids"] {
		names = append(names, "token_type_ids")
		wantsTypeIDs = true
	}
	return names, wantsTypeIDs, nil
}

// infer runs one inference call over an encoded batch and returns the final
// hidden states as a flat [size * seqLen * hiddenDim] slice.
func (s *onnxSession) infer(b encodedBatch) ([]float32, error) {
	shape := ort.NewShape(b.size, b.seqLen)

	tIDs, err := ort.NewTensor(shape, b.ids)
	if err != nil {
		return nil, fmt.Errorf("onnx: input_ids tensor: %w", err)
	}
	defer tIDs.Destroy()

	tMask, err := ort.NewTensor(shape, b.mask)
	if err != nil {
		return nil, fmt.Errorf("onnx: attention_mask tensor: %w", err)
	}
	defer tMask.Destroy()

	inputs := []ort.Value{tIDs, tMask}
	if s.wantsTypeIDs {
		tTypes, err := ort.NewTensor(shape, make([]int64, b.size*b.seqLen))
		if err != nil {
			return nil, fmt.Errorf("onnx: token_type_ids tensor: %w", err)
		}
		defer tTypes.Destroy()
		inputs = append(inputs, tTypes)
	}

	outShape := ort.NewShape(b.size, b.seqLen, s.hiddenDim)
	tOut, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := s.session.Run(inputs, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before the tensor is destroyed.
	src := tOut.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return out, nil
}

func (s *onnxSession) close() error {
	return s.session.Destroy()
}
