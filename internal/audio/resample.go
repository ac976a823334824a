package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// ResampleTo converts mono PCM16 samples from srcRate to dstRate. Returns the
// input untouched when the rates already match.
func ResampleTo(samples []int16, srcRate, dstRate int) ([]int16, error) {
	if srcRate == dstRate {
		return samples, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s) / 32768.0
	}
	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resample %d->%d: %w", srcRate, dstRate, err)
	}

	out := make([]int16, len(output))
	for i, v := range output {
		switch {
		case v > 1.0:
			out[i] = 32767
		case v < -1.0:
			out[i] = -32768
		default:
			out[i] = int16(v * 32767.0)
		}
	}
	return out, nil
}
