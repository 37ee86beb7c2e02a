package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dulek/weback/internal/config"
	"github.com/dulek/weback/internal/logging"
	"github.com/dulek/weback/internal/replay"
	"github.com/dulek/weback/internal/server"
	"github.com/dulek/weback/vacuum"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "weback",
	Short: "WeBack vacuum driver",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.SetLevel(cfg.Logging.Level)
	log := logging.New("weback")

	transport, err := replay.Open(
		cfg.Replay.Dir,
		time.Duration(cfg.Replay.IntervalSeconds)*time.Second,
		logging.New("replay"),
	)
	if err != nil {
		return fmt.Errorf("replay transport: %w", err)
	}

	device := vacuum.NewDevice(
		vacuum.Identity{
			Name:     cfg.Device.Name,
			Nickname: cfg.Device.Nickname,
			SubType:  cfg.Device.SubType,
		},
		transport,
		vacuum.WithLogger(logging.New("device")),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(vacuum.NewMetricsCollector(device))

	httpServer := server.NewHTTPServer(cfg.HTTP.Addr, device, registry)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http serve")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("device", cfg.Device.Name).Str("addr", cfg.HTTP.Addr).Msg("driver started")
	if err := device.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
