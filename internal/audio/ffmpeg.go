package audio

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// SplitStereo splits a stereo WAV into two mono files, left channel (agent)
// and right channel (customer), written next to the input. A non-zero ffmpeg
// exit is fatal for the whole request.
func SplitStereo(ctx context.Context, inputPath string) (leftPath, rightPath string, err error) {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	leftPath = base + "_agent" + ext
	rightPath = base + "_customer" + ext

	if err := runFFmpeg(ctx, "-y", "-i", inputPath, "-af", "pan=mono|c0=FL", leftPath); err != nil {
		return "", "", fmt.Errorf("split left channel: %w", err)
	}
	if err := runFFmpeg(ctx, "-y", "-i", inputPath, "-af", "pan=mono|c0=FR", rightPath); err != nil {
		return "", "", fmt.Errorf("split right channel: %w", err)
	}
	return leftPath, rightPath, nil
}

// TranscodeForSTT rewrites an audio file to the transcription engine's
// required format: mono PCM16 at the given rate.
func TranscodeForSTT(ctx context.Context, inPath, outPath string, sampleRate int) error {
	if err := runFFmpeg(ctx, "-y", "-i", inPath,
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		outPath,
	); err != nil {
		return fmt.Errorf("transcode %s: %w", filepath.Base(inPath), err)
	}
	return nil
}

func runFFmpeg(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(string(out), 400))
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
