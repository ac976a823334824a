package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"call-triage-go/internal/classifier"
	"call-triage-go/internal/config"
	"call-triage-go/internal/logger"
	"call-triage-go/internal/pipeline"
	"call-triage-go/internal/transcribe"
	"call-triage-go/internal/vad"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "call-triage-go").Info("starting pipeline service")

	cfg := config.LoadPipelineConfig()
	if cfg.STTURL == "" {
		log.Warn("STT_URL not set; segment transcription will degrade to request-error placeholders")
	}

	log.WithField("vad_model", cfg.VADModelPath).Info("loading speech detector")
	detector, err := vad.NewDetector(cfg.VADModelPath, cfg.ORTLibPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load speech detector")
	}
	defer detector.Close()

	cls, err := classifier.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Fatal("failed to build classifier")
	}

	svc := &pipeline.Service{
		Detector:    detector,
		Transcriber: &transcribe.SegmentTranscriber{Backend: transcribe.NewHTTPBackend(cfg.STTURL, cfg.STTLanguage)},
		Classifier:  cls,
		Log:         logger.NewComponent("pipeline"),
	}

	mux := newMux(svc)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Minute, // pipeline blocks for transcoding + STT + LLM
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func newMux(svc *pipeline.Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	mux.HandleFunc("/process-audio", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "process-audio")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			reqLog.WithError(err).Warn("missing file field")
			http.Error(w, "missing file upload", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".wav") {
			reqLog.WithField("filename", header.Filename).Warn("unsupported upload type")
			http.Error(w, "Only .wav files are accepted.", http.StatusBadRequest)
			return
		}
		reqLog = reqLog.WithField("filename", header.Filename)
		reqLog.Info("process request received")

		tmpDir, err := os.MkdirTemp("", "call-triage-")
		if err != nil {
			reqLog.WithError(err).Error("create temp dir")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer os.RemoveAll(tmpDir)

		inputPath := filepath.Join(tmpDir, uuid.New().String()+"_input.wav")
		dst, err := os.Create(inputPath)
		if err != nil {
			reqLog.WithError(err).Error("save upload")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			reqLog.WithError(err).Error("save upload")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		dst.Close()

		start := time.Now()
		result, err := svc.Process(r.Context(), inputPath)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("pipeline finished")
		if err != nil {
			reqLog.WithError(err).Warn("pipeline returned error")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			reqLog.WithError(err).Error("failed to write response")
		}
	})

	return mux
}
