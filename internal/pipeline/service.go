// Package pipeline runs one recording through the full chain: channel split,
// speech detection, per-segment transcription, dialogue alignment,
// classification.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"call-triage-go/internal/audio"
	"call-triage-go/internal/dialogue"
	"call-triage-go/internal/transcribe"
	"call-triage-go/internal/types"
	"call-triage-go/internal/vad"
)

// SpeechDetector finds speech spans in a mono stream at the detector rate.
type SpeechDetector interface {
	DetectSegments(samples []int16) ([]types.Segment, error)
}

// DialogueClassifier judges a rendered dialogue.
type DialogueClassifier interface {
	Classify(ctx context.Context, transcript string) (types.LLMResult, error)
}

// Service is the explicitly constructed pipeline: build it once in main and
// pass it to handlers. No stage holds hidden global state.
type Service struct {
	Detector    SpeechDetector
	Transcriber *transcribe.SegmentTranscriber
	Classifier  DialogueClassifier
	Log         *logrus.Entry
}

// Process handles one stereo recording synchronously and returns the
// classification result. Splitter and classifier failures are fatal for the
// request; per-segment recognition failures degrade to placeholder text
// inside the transcriber.
func (s *Service) Process(ctx context.Context, wavPath string) (types.LLMResult, error) {
	start := time.Now()
	log := s.Log.WithField("recording", filepath.Base(wavPath))

	agentPath, customerPath, err := audio.SplitStereo(ctx, wavPath)
	if err != nil {
		return types.LLMResult{}, fmt.Errorf("split channels: %w", err)
	}

	agentSamples, agentSegs, err := s.detectChannel(agentPath)
	if err != nil {
		return types.LLMResult{}, fmt.Errorf("agent channel: %w", err)
	}
	customerSamples, customerSegs, err := s.detectChannel(customerPath)
	if err != nil {
		return types.LLMResult{}, fmt.Errorf("customer channel: %w", err)
	}
	customerSegs = vad.DropEarlyCustomerSegments(agentSegs, customerSegs, vad.DetectorSampleRate)
	log.WithFields(logrus.Fields{
		"agent_segments":    len(agentSegs),
		"customer_segments": len(customerSegs),
	}).Info("speech detection done")

	chunksDir := filepath.Join(filepath.Dir(wavPath), "audio_chunks")
	if err := os.MkdirAll(chunksDir, 0o755); err != nil {
		return types.LLMResult{}, err
	}

	agentFrags, err := s.Transcriber.TranscribeChannel(ctx, agentSamples, vad.DetectorSampleRate, agentSegs, types.ChannelAgent, chunksDir)
	if err != nil {
		return types.LLMResult{}, fmt.Errorf("transcribe agent: %w", err)
	}
	customerFrags, err := s.Transcriber.TranscribeChannel(ctx, customerSamples, vad.DetectorSampleRate, customerSegs, types.ChannelCustomer, chunksDir)
	if err != nil {
		return types.LLMResult{}, fmt.Errorf("transcribe customer: %w", err)
	}

	transcript := dialogue.Render(dialogue.Align(agentFrags, customerFrags))

	result, err := s.Classifier.Classify(ctx, transcript)
	if err != nil {
		return types.LLMResult{}, fmt.Errorf("classify: %w", err)
	}

	log.WithFields(logrus.Fields{
		"classification": result.Classification,
		"category":       result.Category,
		"duration_ms":    time.Since(start).Milliseconds(),
	}).Info("pipeline finished")
	return result, nil
}

// detectChannel decodes one mono channel, resamples it to the detector rate,
// and finds its speech segments.
func (s *Service) detectChannel(path string) ([]int16, []types.Segment, error) {
	samples, rate, err := audio.ReadWAVMono(path)
	if err != nil {
		return nil, nil, err
	}
	samples, err = audio.ResampleTo(samples, rate, vad.DetectorSampleRate)
	if err != nil {
		return nil, nil, err
	}
	segments, err := s.Detector.DetectSegments(samples)
	if err != nil {
		return nil, nil, err
	}
	return samples, segments, nil
}
