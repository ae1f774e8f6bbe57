package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"capreg/internal/platform/config"
	"capreg/internal/platform/logger"
	"capreg/internal/registration/client"
	"capreg/internal/registration/flow"
	"capreg/internal/registration/metrics"
	"capreg/internal/registration/service"
	"capreg/internal/registration/validation"
)

// main walks one candidate through exam lookup, the registration form and
// OTP confirmation against the configured backend.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()
	os.Exit(run(*configPath))
}

// run returns the process exit code once every deferred teardown has run.
func run(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	api, err := client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithBearerToken(cfg.API.Token),
		client.WithDegreeCode(cfg.API.DegreeCode),
		client.WithLogger(log),
		client.WithUnauthorizedHandler(func() {
			log.Warn("backend rejected the configured token")
		}),
	)
	if err != nil {
		log.Error("failed to build api client", "error", err)
		return 1
	}

	svc, err := service.New(api, flow.NewMachine(),
		service.WithLogger(log),
		service.WithMetrics(metrics.New(prometheus.NewRegistry())),
		service.WithCountdownOptions(flow.WithCountdownLogger(log)),
	)
	if err != nil {
		log.Error("failed to build registration service", "error", err)
		return 1
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := newWizard(svc, validation.New(), os.Stdin, os.Stdout)
	w.readSecret = terminalSecret(os.Stdin, os.Stdout)
	if err := w.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
