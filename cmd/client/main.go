package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/webtga/superstrong/internal/client/api"
	"github.com/webtga/superstrong/internal/client/auth"
	"github.com/webtga/superstrong/internal/client/catalog"
	"github.com/webtga/superstrong/internal/client/cli"
	"github.com/webtga/superstrong/internal/client/config"
	"github.com/webtga/superstrong/internal/client/iocli"
	"github.com/webtga/superstrong/internal/client/logbuf"
	"github.com/webtga/superstrong/internal/client/stats"
	"github.com/webtga/superstrong/internal/client/storage/boltdb"
	clientsync "github.com/webtga/superstrong/internal/client/sync"
	"github.com/webtga/superstrong/internal/client/workouts"
	"github.com/webtga/superstrong/internal/telegram"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to config file")
	serverURL := flag.String("server", "", "Workout backend URL")
	catalogURL := flag.String("catalog", "", "Exercise catalog URL")
	dbPath := flag.String("db", "", "Path to local database")
	debug := flag.Bool("debug", false, "Verbose logging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Флаги перекрывают конфиг и окружение
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *catalogURL != "" {
		cfg.CatalogURL = *catalogURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *debug {
		cfg.Debug = true
	}

	ctx := context.Background()

	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	terminal := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(logbuf.NewHandler(terminal, boltStorage))

	io := iocli.NewStdio()
	bridge := telegram.NewConsoleBridge(cfg.InitData, io, logger)

	serverClient := api.NewClient(cfg.ServerURL, boltStorage, boltStorage, logger)
	// Каталог только читается: очередь отложенных записей ему не нужна
	catalogClient := api.NewClient(cfg.CatalogURL, boltStorage, nil, logger)

	aggregator := stats.NewAggregator(boltStorage, logger)
	authService := auth.NewService(serverClient, boltStorage, boltStorage, bridge, logger)
	catalogService := catalog.NewService(catalogClient, cfg.AssetBase, logger)
	workoutService := workouts.NewService(serverClient, boltStorage, aggregator, bridge, logger)
	syncService := clientsync.NewService(serverClient, boltStorage, logger)

	app := cli.New(io, authService, catalogService, workoutService, syncService, aggregator, boltStorage, bridge)
	app.Run(ctx, command, args[1:])
}

func printVersion() {
	fmt.Printf("SuperStrong Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
