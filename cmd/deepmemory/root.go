package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/config"
	"github.com/agenthands/deepmemory/internal/core"
	"github.com/agenthands/deepmemory/internal/core/community"
	"github.com/agenthands/deepmemory/internal/logger"
	"github.com/agenthands/deepmemory/internal/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "deepmemory",
	Short: "Personal social graph built from your memories",
	Long: `DeepMemory keeps a graph of the people in your life. Every memory you
record (a photo or a journal entry) links the people in it, and relationship
strength is derived from how often you share moments.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config/config.toml"
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "Path to the TOML config file")
}

func Execute() error {
	return rootCmd.Execute()
}

// app is what every subcommand needs: configuration, logging and the graph.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	manager *core.Manager
}

func bootstrap(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		fmt.Fprintln(os.Stderr, "No .env file found, using environment")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if err := logger.Init(cfg.Log.Env); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	log := logger.Get()

	backend, err := store.Open(ctx, cfg.Store, cfg.Memgraph, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	st := store.New(backend, log)

	m := core.NewManager(st, log)
	m.AvatarDir = cfg.Server.AvatarDir
	m.Circles = community.NewDetector(cfg.Graph.Circles)

	log.Info("store opened", zap.String("backend", cfg.Store.Backend))
	return &app{cfg: cfg, log: log, store: st, manager: m}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close store", zap.Error(err))
	}
}
