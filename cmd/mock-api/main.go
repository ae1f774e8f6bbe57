package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"capreg/internal/mockapi"
	"capreg/internal/platform/config"
	"capreg/internal/platform/httpserver"
	"capreg/internal/platform/logger"
)

// main serves the fake admissions backend until interrupted. Issued OTPs are
// written to the log.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New("error", "text").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	backend, err := mockapi.New(mockapi.Options{
		Logger: log,
		Token:  cfg.Mock.Token,
		DevOTP: cfg.Mock.DevOTP,
		OTPTTL: cfg.Mock.OTPTTL,
	})
	if err != nil {
		log.Error("failed to build mock backend", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(cfg.Mock.Addr, backend.Router)
	if err := httpserver.Run(ctx, srv, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
