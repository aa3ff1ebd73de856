// Package main provides the apexbot binary entry point.
// Apexbot is a LINE bot for an Apex Legends community: a shared user-editable
// dictionary, map-rotation reports, and legend/weapon stat sheets.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/spf13/cobra"

	"apexbot/internal/adapter/driven/apexapi"
	lineadapter "apexbot/internal/adapter/driven/line"
	sqliteadapter "apexbot/internal/adapter/driven/sqlite"
	"apexbot/internal/adapter/driving/httpsrv"
	"apexbot/internal/application"
	"apexbot/internal/config"
	"apexbot/internal/stats"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apexbot",
		Short: "Apex Legends community LINE bot",
		Long: `Apexbot answers LINE messages for an Apex Legends community:
a shared user-editable dictionary, the current map rotation, and
legend/weapon stat sheets.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitDB()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apexbot version %s\n", version)
		},
	})

	return cmd
}

// runInitDB is the one-shot initializer: open the database, apply the schema,
// exit. Safe to run repeatedly against the same database file.
func runInitDB() error {
	dbPath := config.DBPath()

	db, err := sqliteadapter.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}

	slog.Info("database initialized", "path", dbPath)
	return nil
}

func runServe() error {
	// 1. Load configuration (fail fast on missing LINE credentials).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"page_size", cfg.PageSize,
		"apex_api_key_set", cfg.ApexAPIKey != "",
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode) and migrate.
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// 4. Wire adapters.
	termStore := sqliteadapter.NewTermRepo(db)
	rotationClient := apexapi.NewClient(cfg.ApexAPIKey)

	sheet, err := stats.Load()
	if err != nil {
		return err
	}

	replier, err := lineadapter.NewReplier(cfg.ChannelToken)
	if err != nil {
		return err
	}

	// 5. Create the command router and webhook handler.
	router := application.NewRouter(termStore, rotationClient, sheet, cfg.PageSize, slog.Default())
	handler := httpsrv.NewHandler(router, replier, cfg.ChannelSecret, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpsrv.NewServeMux(handler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("apexbot started", "listen_addr", cfg.ListenAddr)

	// 6. Wait for shutdown signal, then drain the HTTP server.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
