package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brownie44l1/http-pool/internal/server"
)

func main() {
	cfg := server.DefaultConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of worker goroutines")
	flag.IntVar(&cfg.ReadBufferSize, "buffer", cfg.ReadBufferSize, "request read buffer size in bytes")
	flag.IntVar(&cfg.MaxHeaders, "max-headers", cfg.MaxHeaders, "header lines kept per request")
	flag.BoolVar(&cfg.StrictMethods, "strict-methods", cfg.StrictMethods, "answer 405 to methods other than GET")
	logMode := flag.String("log", "text", "log output: text or otel")
	verbose := flag.Bool("v", false, "log debug lines (text mode)")
	otlp := flag.Bool("otlp", false, "export traces, metrics and logs over OTLP gRPC")
	flag.Parse()

	if err := run(cfg, *logMode, *verbose, *otlp); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg server.Config, logMode string, verbose, otlp bool) error {
	if otlp {
		otelShutdown, err := setupOTelSDK(context.Background())
		if err != nil {
			return fmt.Errorf("telemetry setup: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(ctx); err != nil {
				log.Printf("telemetry shutdown: %v", err)
			}
		}()
	}

	var logger server.Logger
	switch logMode {
	case "text":
		l := server.NewDefaultLogger()
		l.Verbose = verbose
		logger = l
	case "otel":
		logger = server.NewOTelLogger(serviceName)
	default:
		return fmt.Errorf("unknown -log mode %q", logMode)
	}

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		return err
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case serveErr = <-serverErrCh:
		if errors.Is(serveErr, server.ErrServerClosed) {
			serveErr = nil
		}
	case sig := <-sigChan:
		logger.Info("shutting down", server.Field{Key: "signal", Value: sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	stats := srv.Stats()
	fmt.Printf("connections accepted: %d\n", stats.ConnectionsAccepted)
	fmt.Printf("connections failed:   %d\n", stats.ConnectionsFailed)
	fmt.Printf("requests:             %d (4xx %d, 5xx %d)\n", stats.RequestsTotal, stats.Errors4xx, stats.Errors5xx)
	fmt.Printf("average latency:      %s\n", stats.AverageLatency)

	return serveErr
}
