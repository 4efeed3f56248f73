package main

import (
	"database/sql"
	"fmt"
	"net"
	"os"

	"github.com/de-tools/weekalloc/pkg/server"
	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/de-tools/weekalloc/pkg/services/config"
	"github.com/de-tools/weekalloc/pkg/store/duckdb"
	"github.com/de-tools/weekalloc/pkg/store/duckdb/aggregate"
	sqlstore "github.com/de-tools/weekalloc/pkg/store/sql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the week allocation web API",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (defaults and WEEKALLOC_* variables apply when empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath:  cfg.Storage.DuckDB.Path,
		Threads: cfg.Storage.DuckDB.Threads,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	engine, err := newEngine(cfg.Engine, db)
	if err != nil {
		return err
	}

	store, err := sqlstore.NewAllocationStore(db, sqlstore.Options{
		Table:         cfg.Sink.Table,
		Transactional: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create allocation store: %w", err)
	}
	if err := store.EnsureTable(ctx); err != nil {
		return err
	}

	var profiles config.ProfileRegistry
	if cfg.Range.ProfileFile != "" {
		profiles, err = config.NewProfileRegistry(cfg.Range.ProfileFile)
		if err != nil {
			return err
		}
		names, err := profiles.GetProfiles()
		if err != nil {
			return fmt.Errorf("failed to list range profiles: %w", err)
		}
		logger.Info().Strs("profiles", names).Msgf("Range profiles loaded from `%s`", cfg.Range.ProfileFile)
	}

	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = cfg.Server.Host
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	if port == "" {
		return fmt.Errorf("missing server port, set SERVER_PORT or server.port")
	}

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxRangeDays:    cfg.Server.MaxRangeDays,
		Dependencies: server.Dependencies{
			Calculator: engine,
			Profiles:   profiles,
			Store:      store,
			Logger:     logger,
		},
	})

	return api.Start()
}

func newEngine(cfg config.EngineConfig, db *sql.DB) (*allocation.Engine, error) {
	opts := []allocation.Option{allocation.WithWorkers(cfg.Workers)}
	switch cfg.Aggregator {
	case "", "memory":
	case "duckdb":
		agg, err := aggregate.NewAggregator(db)
		if err != nil {
			return nil, err
		}
		opts = append(opts, allocation.WithAggregator(agg))
	default:
		return nil, fmt.Errorf("unsupported aggregator %q", cfg.Aggregator)
	}
	return allocation.NewEngine(opts...), nil
}
