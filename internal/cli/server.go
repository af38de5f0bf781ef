package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yflink/linkswap/internal/config"
	"github.com/yflink/linkswap/internal/core/ledger"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/rpc"
	"github.com/yflink/linkswap/internal/storage/keyValueDb/pebble"
)

// serverCmd starts the daemon.
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the linkswap daemon",
	Long: `Start linkswapd, which opens the ledger database and serves the
JSON-RPC API (submit, pair_info, factory_info, oracle_info, token_info,
all_pairs) plus Prometheus metrics.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, args)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := pebble.Open(cfg.Database.Path, pebble.Options{
		CacheSize: cfg.Database.CacheSize,
		Sync:      cfg.Database.Sync,
	})
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}

	store, err := ledger.NewStore(db,
		ledger.WithCacheEntries(cfg.Database.CacheEntries),
		ledger.WithCompressor(cfg.Database.Compressor),
	)
	if err != nil {
		db.Close()
		return err
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	metrics, err := tx.NewMetrics(registry)
	if err != nil {
		return err
	}

	engine := tx.NewEngine(store,
		tx.WithLogger(log.Named("engine")),
		tx.WithMetrics(metrics),
	)

	serverOpts := []rpc.Option{rpc.WithLogger(log.Named("rpc"))}
	if cfg.Server.MetricsEnabled {
		serverOpts = append(serverOpts, rpc.WithMetricsRegistry(registry))
	}
	server := rpc.NewServer(engine, rpc.NewWallClock(), serverOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting linkswapd",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("database", cfg.Database.Path))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, cfg.Server.Addr())
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("linkswapd stopped")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
