package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docuchat/internal/config"
	"docuchat/internal/pkg/jwtutil"
	"docuchat/internal/pkg/logger"
	httptransport "docuchat/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stub of the document-chat service",
	Long: "Runs an in-memory stand-in for the remote service, with simulated " +
		"document processing and canned streamed answers. Prints a bearer token " +
		"the client commands can use.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}
	log := logger.New(cfg.Log.File, true)
	defer log.Sync()

	token, err := jwtutil.GenerateToken(cfg.Stub.JWTSecret, "dev", time.Duration(cfg.Stub.TokenTTLMinute)*time.Minute)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(cfg.Stub)
	server := &http.Server{
		Addr:              cfg.StubAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Printf("Stub service listening on %s\n", server.Addr)
	fmt.Printf("export API_TOKEN=%s\n", token)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("stub server failed", zap.Error(err))
		}
	}()

	waitForShutdown(server, log)
	return nil
}

func waitForShutdown(server *http.Server, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("stub server shutdown failed", zap.Error(err))
	}
}
