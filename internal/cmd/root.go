// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package cmd implements the trustless command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/config"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/escrow"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/metrics"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/telemetry"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/txn"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/visualizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/stellar/go/keypair"
)

var (
	cfgPath  string
	logLevel string
	noColor  bool
)

// app holds the clients built from the loaded configuration.
type app struct {
	cfg      *config.Config
	client   *rpc.Client
	pipeline *txn.Pipeline
	escrow   *escrow.Service
	wallet   *keypair.Full

	shutdown   func(context.Context) error
	metricsSrv *http.Server
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "trustless",
	Short: "Escrow operations on Soroban",
	Long: `Trustless drives escrow contracts on a Soroban network: it builds unsigned
envelopes for users to sign, submits signed envelopes and waits for the
ledger to include them, and reads escrow state through the service wallet.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if cerr := teardown(); cerr != nil {
		logger.Logger.Warn("Shutdown incomplete", "error", cerr)
	}
	if err != nil {
		status, msg := txn.Describe(err)
		fmt.Fprintf(os.Stderr, "%s %s (%d)\n", visualizer.Error(), msg, status)
		logger.Logger.Debug("Command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func setup(cmd *cobra.Command, _ []string) error {
	if noColor {
		visualizer.DisableColor()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	client, err := rpc.NewClient(cfg.Network, rpc.WithMetrics(m))
	if err != nil {
		_ = shutdown(cmd.Context())
		return err
	}

	var wallet *keypair.Full
	if cfg.WalletSecret != "" {
		wallet, err = txn.ParseSecret(cfg.WalletSecret)
		if err != nil {
			_ = shutdown(cmd.Context())
			return fmt.Errorf("wallet secret: %w", err)
		}
	}

	accounts, err := client.Accounts(cfg.Network.AccountSource)
	if err != nil {
		_ = shutdown(cmd.Context())
		return err
	}

	pipeline := txn.NewPipeline(client, accounts, cfg.TxOptions(), m)
	current = &app{
		cfg:      cfg,
		client:   client,
		pipeline: pipeline,
		escrow:   escrow.NewService(pipeline, cfg.EscrowSettings(), wallet),
		wallet:   wallet,
		shutdown: shutdown,
	}

	if cfg.Metrics.Listen != "" {
		current.metricsSrv = serveMetrics(cfg.Metrics.Listen, reg)
	}

	logger.Logger.Debug("Configured",
		"network", cfg.Network.Name,
		"rpc", cfg.Network.SorobanRPCURL,
		"account_source", cfg.Network.AccountSource,
	)
	return nil
}

// teardown stops the metrics server and flushes pending spans. It runs
// whether or not the command succeeded.
func teardown() error {
	if current == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if current.metricsSrv != nil {
		errs = append(errs, current.metricsSrv.Shutdown(ctx))
	}
	errs = append(errs, current.shutdown(ctx))
	current = nil
	return errors.Join(errs...)
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Warn("Metrics server stopped", "addr", addr, "error", err)
		}
	}()
	return srv
}

// signer resolves the key for commands that sign locally: the --secret
// flag when given, otherwise the service wallet.
func signer(secret string) (*keypair.Full, error) {
	if secret != "" {
		return txn.ParseSecret(secret)
	}
	if current.wallet == nil {
		return nil, &txn.AssemblyError{Reason: "no signing key: pass --secret or set TRUSTLESS_WALLET_SECRET"}
	}
	return current.wallet, nil
}
