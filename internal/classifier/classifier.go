package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"
)

// ErrModelUnavailable marks a classifier whose model artifact failed to
// load. The failure is sticky: once initialization has failed, every later
// call reports it until the process is restarted.
var ErrModelUnavailable = errors.New("classification model unavailable")

// Prediction is the result of classifying a single image.
type Prediction struct {
	Label string
	Score float64 // in [0, 1]
}

// Labeler is the interface request handlers consume, so tests can stub
// the model out.
type Labeler interface {
	Classify(img image.Image) (Prediction, error)
}

type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

// Classifier wraps a pretrained ONNX image-classification artifact. The
// ONNX environment, session and tensors load lazily on first use, exactly
// once per process; the instance is shared across requests.
type Classifier struct {
	modelPath    string
	metadataPath string

	initOnce sync.Once
	initErr  error

	mu           sync.Mutex
	metadata     Metadata
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func New(modelPath, metadataPath string) *Classifier {
	return &Classifier{
		modelPath:    modelPath,
		metadataPath: metadataPath,
	}
}

// Warmup forces the lazy model load, so startup can probe it.
func (c *Classifier) Warmup() error {
	return c.init()
}

func (c *Classifier) init() error {
	c.initOnce.Do(func() {
		c.initErr = c.load()
	})
	if c.initErr != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, c.initErr)
	}
	return nil
}

func (c *Classifier) load() error {
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	metaFile, err := os.ReadFile(c.metadataPath)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return fmt.Errorf("failed to parse metadata: %w", err)
	}
	if len(metadata.Classes) == 0 {
		return fmt.Errorf("metadata lists no classes")
	}
	if metadata.ImageSize <= 0 {
		return fmt.Errorf("metadata image_size must be positive, got %d", metadata.ImageSize)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		return fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(c.modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return fmt.Errorf("failed to create ONNX session: %w", err)
	}

	c.metadata = metadata
	c.session = session
	c.inputTensor = inputTensor
	c.outputTensor = outputTensor
	return nil
}

// Classify runs the model on a decoded image and returns the top label and
// its softmax probability.
func (c *Classifier) Classify(img image.Image) (Prediction, error) {
	if err := c.init(); err != nil {
		return Prediction{}, err
	}

	inputData := Preprocess(img, c.metadata.ImageSize)

	// The session reuses one pair of tensors, so inference is serialized.
	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputTensor.GetData(), inputData)

	if err := c.session.Run(); err != nil {
		return Prediction{}, fmt.Errorf("inference failed: %w", err)
	}

	probs := Softmax(c.outputTensor.GetData())

	maxIdx := 0
	for i, p := range probs {
		if i >= len(c.metadata.Classes) {
			break
		}
		if p > probs[maxIdx] {
			maxIdx = i
		}
	}

	return Prediction{
		Label: c.metadata.Classes[maxIdx],
		Score: probs[maxIdx],
	}, nil
}

func (c *Classifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
		ort.DestroyEnvironment()
	}
	c.session = nil
	c.inputTensor = nil
	c.outputTensor = nil
}

// Preprocess resizes an image to size×size and lays it out as CHW float32
// planes normalized to [0, 1], the input layout the model expects.
func Preprocess(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	inputData := make([]float32, 3*width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			pixelIndex := y*width + x
			inputData[pixelIndex] = float32(r) / 65535.0
			inputData[width*height+pixelIndex] = float32(g) / 65535.0
			inputData[2*width*height+pixelIndex] = float32(b) / 65535.0
		}
	}

	return inputData
}

// Softmax converts raw model logits into a probability distribution.
func Softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float64, len(logits))
	sum := 0.0
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
