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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/core/dedupe"
	"github.com/agenthands/deepmemory/internal/core/extraction"
	"github.com/agenthands/deepmemory/internal/llm"
	"github.com/agenthands/deepmemory/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.manager.EnsureRoot(ctx); err != nil {
		return fmt.Errorf("failed to seed root node: %w", err)
	}

	client, err := llm.NewClient(ctx, a.cfg.LLM, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	guarded := llm.NewGuarded(client, a.cfg.Analysis, a.log)

	analyzer := extraction.NewAnalyzer(guarded, a.cfg.Prompts, a.log)
	matcher := dedupe.NewMatcher(guarded, a.cfg.Prompts.Match, a.cfg.Analysis.MaxConcurrency, a.log)

	gin.SetMode(a.cfg.Server.Mode)
	srv := server.NewServer(a.manager, analyzer, matcher, a.cfg, a.log)

	port := a.cfg.Server.Port
	if servePort != "" {
		port = servePort
	}
	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: srv.SetupRouter(),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		a.log.Info("received signal", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		a.log.Info("server stopped gracefully")
		return nil
	}
}
