package audio

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeBytes(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := []int16{0, 1000, -1000, 32767, -32768, 42}

	if err := WriteWAVMono(path, samples, 16000); err != nil {
		t.Fatalf("WriteWAVMono: %v", err)
	}
	got, rate, err := ReadWAVMono(path)
	if err != nil {
		t.Fatalf("ReadWAVMono: %v", err)
	}
	if rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if !reflect.DeepEqual(got, samples) {
		t.Errorf("samples = %v, want %v", got, samples)
	}
}

func TestWAVRoundTripEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := WriteWAVMono(path, nil, 8000); err != nil {
		t.Fatalf("WriteWAVMono: %v", err)
	}
	got, rate, err := ReadWAVMono(path)
	if err != nil {
		t.Fatalf("ReadWAVMono: %v", err)
	}
	if rate != 8000 || len(got) != 0 {
		t.Errorf("got %d samples at %d Hz, want 0 at 8000", len(got), rate)
	}
}

func TestReadWAVMonoRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := writeBytes(path, []byte("this is not a wav file at all")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadWAVMono(path); err == nil {
		t.Error("expected error for non-RIFF input")
	}
}

func TestResampleToSameRateIsNoop(t *testing.T) {
	samples := []int16{1, 2, 3}
	got, err := ResampleTo(samples, 16000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, samples) {
		t.Errorf("ResampleTo same rate = %v, want input unchanged", got)
	}
}

func TestResampleToHalvesLength(t *testing.T) {
	samples := make([]int16, 32000)
	got, err := ResampleTo(samples, 32000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	// filter delay can shave a few frames; the ratio must hold roughly
	if len(got) < 15000 || len(got) > 17000 {
		t.Errorf("resampled length = %d, want ~16000", len(got))
	}
}
