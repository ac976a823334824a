package vad

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"call-triage-go/internal/types"
)

const (
	// DetectorSampleRate is the rate the Silero model expects; callers must
	// resample their stream to it before detection.
	DetectorSampleRate = 16000

	windowSamples = 512

	// DefaultThreshold is the speech probability above which a window counts
	// as speech; the exit threshold sits 0.15 below it.
	DefaultThreshold = 0.3

	// DefaultMinSpeechMs drops detected spans shorter than this.
	DefaultMinSpeechMs = 400

	minSilenceMs = 100
)

// Detector runs the Silero voice-activity model over mono PCM16 audio.
// Construct one with NewDetector at startup and pass it explicitly; it owns
// the ONNX Runtime session for the process lifetime.
type Detector struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession

	Threshold   float32
	MinSpeechMs int
}

// NewDetector loads the Silero VAD ONNX model. ortLib optionally points at
// the onnxruntime shared library; empty uses the loader default.
func NewDetector(modelPath, ortLib string) (*Detector, error) {
	if ortLib != "" {
		ort.SetSharedLibraryPath(ortLib)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	defer opts.Destroy()
	if err := opts.SetIntraOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("set threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input", "sr", "h", "c"},
		[]string{"output", "hn", "cn"},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("load vad model %s: %w", modelPath, err)
	}

	return &Detector{
		session:     session,
		Threshold:   DefaultThreshold,
		MinSpeechMs: DefaultMinSpeechMs,
	}, nil
}

// Close releases the ONNX session.
func (d *Detector) Close() error {
	if d.session == nil {
		return nil
	}
	err := d.session.Destroy()
	d.session = nil
	return err
}

// DetectSegments returns the ordered speech spans of a mono stream sampled at
// DetectorSampleRate. Spans shorter than MinSpeechMs are dropped; gaps are
// never merged.
func (d *Detector) DetectSegments(samples []int16) ([]types.Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	input := make([]float32, len(samples))
	for i, s := range samples {
		input[i] = float32(s) / 32768.0
	}

	// recurrent state persists across windows within one stream
	h := make([]float32, 2*1*64)
	c := make([]float32, 2*1*64)

	var (
		exitThreshold     = d.Threshold - 0.15
		minSpeechSamples  = d.MinSpeechMs * DetectorSampleRate / 1000
		minSilenceSamples = minSilenceMs * DetectorSampleRate / 1000

		segments  []types.Segment
		triggered bool
		start     int
		tempEnd   int
	)

	window := make([]float32, windowSamples)
	for offset := 0; offset < len(input); offset += windowSamples {
		n := copy(window, input[offset:])
		for i := n; i < windowSamples; i++ {
			window[i] = 0
		}

		prob, err := d.infer(window, h, c)
		if err != nil {
			return nil, err
		}
		windowEnd := offset + windowSamples

		if prob >= d.Threshold && tempEnd != 0 {
			tempEnd = 0
		}
		if prob >= d.Threshold && !triggered {
			triggered = true
			start = offset
			continue
		}
		if prob < exitThreshold && triggered {
			if tempEnd == 0 {
				tempEnd = windowEnd
			}
			if windowEnd-tempEnd < minSilenceSamples {
				continue
			}
			if tempEnd-start >= minSpeechSamples {
				segments = append(segments, types.Segment{Start: start, End: tempEnd})
			}
			triggered = false
			tempEnd = 0
		}
	}

	if triggered {
		end := len(input)
		if tempEnd != 0 {
			end = tempEnd
		}
		if end-start >= minSpeechSamples {
			segments = append(segments, types.Segment{Start: start, End: end})
		}
	}
	return segments, nil
}

// infer runs one 512-sample window through the model, updating h/c in place,
// and returns the speech probability.
func (d *Detector) infer(window, h, c []float32) (float32, error) {
	inputTensor, err := ort.NewTensor(ort.NewShape(1, windowSamples), window)
	if err != nil {
		return 0, fmt.Errorf("input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	srTensor, err := ort.NewTensor(ort.NewShape(1), []int64{DetectorSampleRate})
	if err != nil {
		return 0, fmt.Errorf("sr tensor: %w", err)
	}
	defer srTensor.Destroy()

	hTensor, err := ort.NewTensor(ort.NewShape(2, 1, 64), h)
	if err != nil {
		return 0, fmt.Errorf("h tensor: %w", err)
	}
	defer hTensor.Destroy()

	cTensor, err := ort.NewTensor(ort.NewShape(2, 1, 64), c)
	if err != nil {
		return 0, fmt.Errorf("c tensor: %w", err)
	}
	defer cTensor.Destroy()

	outputs := []ort.Value{nil, nil, nil}
	if err := d.session.Run(
		[]ort.Value{inputTensor, srTensor, hTensor, cTensor},
		outputs,
	); err != nil {
		return 0, fmt.Errorf("vad inference: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return 0, fmt.Errorf("vad inference: unexpected output type %T", outputs[0])
	}
	prob := out.GetData()[0]

	if hn, ok := outputs[1].(*ort.Tensor[float32]); ok {
		copy(h, hn.GetData())
	}
	if cn, ok := outputs[2].(*ort.Tensor[float32]); ok {
		copy(c, cn.GetData())
	}
	return prob, nil
}
