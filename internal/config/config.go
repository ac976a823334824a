package config

import (
	"os"
	"strconv"
)

// PipelineConfig configures the audio processing service.
type PipelineConfig struct {
	Port         string
	GeminiAPIKey string
	GeminiModel  string
	STTURL       string
	STTLanguage  string
	VADModelPath string
	ORTLibPath   string // shared libonnxruntime path, empty = loader default
}

// BatchConfig configures the batch driver.
type BatchConfig struct {
	AudioDir   string
	APIURL     string
	OutputCSV  string
	TimeoutSec int
}

// ReviewConfig configures the annotation web app.
type ReviewConfig struct {
	Port          string
	SystemPath    string
	AnnotatedPath string
}

func LoadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Port:         envOr("PORT", "8000"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.0-flash-001"),
		STTURL:       os.Getenv("STT_URL"),
		STTLanguage:  envOr("STT_LANGUAGE", "tr"),
		VADModelPath: envOr("VAD_MODEL_PATH", "silero_vad.onnx"),
		ORTLibPath:   os.Getenv("ONNXRUNTIME_LIB"),
	}
}

func LoadBatchConfig() *BatchConfig {
	timeout := 120
	if t := os.Getenv("BATCH_TIMEOUT_SEC"); t != "" {
		if n, err := strconv.Atoi(t); err == nil && n > 0 {
			timeout = n
		}
	}
	return &BatchConfig{
		AudioDir:   envOr("AUDIO_DIR", "data/audio_files"),
		APIURL:     envOr("API_URL", "http://127.0.0.1:8000/process-audio"),
		OutputCSV:  envOr("OUTPUT_CSV", "data/system_output.csv"),
		TimeoutSec: timeout,
	}
}

func LoadReviewConfig() *ReviewConfig {
	return &ReviewConfig{
		Port:          envOr("REVIEW_PORT", "5000"),
		SystemPath:    envOr("SYSTEM_OUTPUT_PATH", "data/system_output.csv"),
		AnnotatedPath: envOr("ANNOTATED_PATH", "data/annotated.csv"),
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
