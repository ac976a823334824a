package main

import (
	"time"

	"github.com/joho/godotenv"

	"call-triage-go/internal/batch"
	"call-triage-go/internal/config"
	"call-triage-go/internal/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.LoadBatchConfig()
	log.WithField("audio_dir", cfg.AudioDir).WithField("api_url", cfg.APIURL).Info("starting batch run")

	runner := batch.NewRunner(cfg.APIURL, time.Duration(cfg.TimeoutSec)*time.Second, logger.NewComponent("batch"))
	if err := runner.Run(cfg.AudioDir, cfg.OutputCSV); err != nil {
		log.WithError(err).Fatal("batch run failed")
	}
	log.WithField("output", cfg.OutputCSV).Info("batch run finished")
}
