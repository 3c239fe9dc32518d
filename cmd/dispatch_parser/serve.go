package main

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dispatch_parser/internal/api"
	"dispatch_parser/internal/config"
	"dispatch_parser/internal/engine"
	"dispatch_parser/internal/intake"
	"dispatch_parser/internal/metrics"
)

func runServe(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	var (
		observer engine.Observer
		opts     = []api.Option{api.WithLogger(logger)}
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		observer = collector
		opts = append(opts, api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	eng, err := buildEngine(cfg, logger, observer)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	var svc *intake.Service
	if store != nil {
		defer store.Close()
		svc = intake.NewService(eng, store, logger)
	}

	srv := api.NewServer(eng, svc, api.Config{Port: cfg.HTTPPort, APIKeys: cfg.APIKeys}, opts...)
	return srv.Run(ctx)
}

func runWorker(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	eng, err := buildEngine(cfg, logger, nil)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("worker requires storage; STORAGE_DRIVER is %q", cfg.StorageDriver)
	}
	defer store.Close()

	nc, err := nats.Connect(cfg.NATSURL, nats.Name(serviceName))
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer nc.Close()

	w := intake.NewWorker(nc, intake.NewService(eng, store, logger), intake.WorkerConfig{
		Subject:       cfg.NATSSubject,
		Queue:         cfg.NATSQueue,
		StatusSubject: cfg.NATSStatusSubject,
	}, logger)
	return w.Run(ctx)
}
