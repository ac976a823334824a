package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"call-triage-go/internal/config"
	"call-triage-go/internal/logger"
	"call-triage-go/internal/review"
	"call-triage-go/internal/store"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.LoadReviewConfig()
	log.WithField("system_output", cfg.SystemPath).WithField("annotated", cfg.AnnotatedPath).Info("starting review app")

	app := review.NewApp(store.New(cfg.SystemPath, cfg.AnnotatedPath))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
