package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Minimal RIFF/WAVE support for 16-bit PCM. The pipeline only ever sees WAV:
// uploads are rejected otherwise and ffmpeg emits PCM16 WAV for every
// intermediate file.

var errNotWave = errors.New("not a RIFF/WAVE file")

// ReadWAVMono decodes a PCM16 WAV file into samples and a sample rate.
// Multi-channel input keeps channel 0 only.
func ReadWAVMono(path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, 0, fmt.Errorf("read wav header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, 0, errNotWave
	}

	var (
		channels   int
		sampleRate int
		bitDepth   int
		data       []byte
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, 0, err
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])
		switch id {
		case "fmt ":
			buf := make([]byte, size)
			if _, err := io.ReadFull(f, buf); err != nil {
				return nil, 0, err
			}
			channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			bitDepth = int(binary.LittleEndian.Uint16(buf[14:16]))
		case "data":
			data = make([]byte, size)
			if _, err := io.ReadFull(f, data); err != nil {
				return nil, 0, err
			}
		default:
			// skip unknown chunks (LIST, fact, ...)
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, 0, err
			}
		}
		// chunks are word-aligned
		if size%2 == 1 {
			if _, err := f.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}
	}
	if sampleRate == 0 || data == nil {
		return nil, 0, fmt.Errorf("wav %s: missing fmt or data chunk", path)
	}
	if bitDepth != 16 {
		return nil, 0, fmt.Errorf("wav %s: unsupported bit depth %d", path, bitDepth)
	}
	if channels < 1 {
		return nil, 0, fmt.Errorf("wav %s: no channels", path)
	}

	frames := len(data) / (2 * channels)
	samples := make([]int16, frames)
	for i := 0; i < frames; i++ {
		off := i * 2 * channels
		samples[i] = int16(binary.LittleEndian.Uint16(data[off : off+2]))
	}
	return samples, sampleRate, nil
}

// WriteWAVMono encodes mono PCM16 samples as a WAV file.
func WriteWAVMono(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dataLen := len(samples) * 2
	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))
	if _, err := f.Write(header[:]); err != nil {
		return err
	}

	buf := make([]byte, dataLen)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], uint16(s))
	}
	_, err = f.Write(buf)
	return err
}
