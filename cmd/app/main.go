// File: cmd/app/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"iontrap-job-client/internal/config"
	"iontrap-job-client/internal/domain/model"
	cloudAdapter "iontrap-job-client/internal/infra/adapters/cloud"
	"iontrap-job-client/internal/infra/api"
	"iontrap-job-client/internal/infra/logging"
	"iontrap-job-client/internal/infra/metrics"
	"iontrap-job-client/internal/infra/registry"
	"iontrap-job-client/internal/usecase"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	circuitPath := flag.String("circuit", "", "path to circuit JSON file (required)")
	shots := flag.Int("shots", 1000, "number of circuit evaluations")
	machine := flag.String("machine", "", "target machine (overrides api.machine)")
	flag.Parse()

	if *circuitPath == "" {
		log.Fatalf("usage: -circuit <file.json> is required")
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *machine != "" {
		cfg.API.Machine = *machine
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	logger.Info().
		Str("base_url", cfg.API.BaseURL).
		Str("machine", cfg.API.Machine).
		Str("api_key", logging.Redact(cfg.API.APIKey, cfg.Runtime.Dev)).
		Msg("starting")

	metrics.MustRegister()

	// ---- Circuit ----
	raw, err := os.ReadFile(*circuitPath)
	if err != nil {
		log.Fatalf("circuit: %v", err)
	}
	var circuit model.StaticCircuit
	if err := json.Unmarshal(raw, &circuit); err != nil {
		log.Fatalf("circuit: parse %s: %v", *circuitPath, err)
	}
	if err := circuit.Validate(); err != nil {
		log.Fatalf("circuit: %v", err)
	}

	// ---- Wiring ----
	backend, err := cloudAdapter.NewClient(cfg.API.APIKey, cfg.API.BaseURL)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	jobs := registry.NewMemoryJobRepo()
	jobUC := usecase.NewJobUseCase(backend, jobs, logger, cfg.Poll.Interval, cfg.Poll.Timeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Admin server (health, metrics, local job view) ----
	var admin *api.Server
	if cfg.Admin.Port > 0 {
		admin = api.NewServer(cfg.Admin.Port, jobs, logger)
		go func() {
			if err := admin.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("admin server stopped")
			}
		}()
	}

	// ---- Submit and await ----
	job, payload, err := jobUC.Run(ctx, &circuit, *shots, cfg.API.Machine)
	if err != nil {
		if job != nil {
			logger.Error().Err(err).Str("job_id", job.Handle).Msg("job did not complete")
		}
		shutdownAdmin(admin, logger)
		log.Fatalf("run: %v", err)
	}

	out, _ := json.MarshalIndent(struct {
		Job    string         `json:"job"`
		Shots  int            `json:"shots"`
		Counts map[string]int `json:"counts"`
	}{Job: job.Handle, Shots: payload.Len(), Counts: payload.Counts()}, "", "  ")
	fmt.Println(string(out))

	shutdownAdmin(admin, logger)
}

func shutdownAdmin(admin *api.Server, logger *zerolog.Logger) {
	if admin == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := admin.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("admin server shutdown")
	}
}
