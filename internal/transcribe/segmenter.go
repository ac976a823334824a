package transcribe

import (
	"context"
	"fmt"
	"path/filepath"

	"call-triage-go/internal/audio"
	"call-triage-go/internal/logger"
	"call-triage-go/internal/types"
)

const (
	// Unrecognized is the sentinel text for segments the engine could not
	// make out. It is a value, not an error: processing continues.
	Unrecognized = "[Unrecognized]"

	// padSeconds widens each segment on both sides before transcription so
	// word onsets clipped by the detector survive.
	padSeconds = 0.4

	// sttSampleRate is the engine's required input rate.
	sttSampleRate = 16000
)

// SegmentTranscriber turns detected speech segments of one channel into
// transcript fragments: pad, clamp, slice, transcode, recognize.
type SegmentTranscriber struct {
	Backend Backend
}

// TranscribeChannel processes segments in order and returns one fragment per
// segment, carrying the padded bounds. A per-segment request failure degrades
// to an error-carrying placeholder text; it never aborts the channel.
func (t *SegmentTranscriber) TranscribeChannel(ctx context.Context, samples []int16, sampleRate int, segments []types.Segment, label, workDir string) ([]types.TranscriptFragment, error) {
	log := logger.NewComponent("transcriber").WithField("channel", label)
	pad := int(padSeconds * float64(sampleRate))

	fragments := make([]types.TranscriptFragment, 0, len(segments))
	for i, seg := range segments {
		start, end := PadAndClamp(seg, pad, len(samples))

		rawPath := filepath.Join(workDir, fmt.Sprintf("%s_segment_%d_raw.wav", label, i))
		if err := audio.WriteWAVMono(rawPath, samples[start:end], sampleRate); err != nil {
			return nil, fmt.Errorf("write segment %d: %w", i, err)
		}
		sttPath := filepath.Join(workDir, fmt.Sprintf("%s_segment_%d.wav", label, i))
		if err := audio.TranscodeForSTT(ctx, rawPath, sttPath, sttSampleRate); err != nil {
			return nil, err
		}

		text, err := t.Backend.Transcribe(ctx, sttPath)
		if err != nil {
			log.WithField("segment", i).WithError(err).Warn("recognition request failed")
			text = fmt.Sprintf("[Request error: %v]", err)
		} else if text == "" {
			text = Unrecognized
		}

		fragments = append(fragments, types.TranscriptFragment{
			Channel: label,
			Start:   start,
			End:     end,
			Text:    text,
		})
	}
	return fragments, nil
}

// PadAndClamp widens a segment by pad samples on each side and clamps the
// result to [0, streamLen].
func PadAndClamp(seg types.Segment, pad, streamLen int) (start, end int) {
	start = seg.Start - pad
	if start < 0 {
		start = 0
	}
	end = seg.End + pad
	if end > streamLen {
		end = streamLen
	}
	return start, end
}
