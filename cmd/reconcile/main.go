package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-reconcile/api"
	"github.com/gcbaptista/go-reconcile/config"
	"github.com/gcbaptista/go-reconcile/internal/catalog"
	"github.com/gcbaptista/go-reconcile/internal/gazetteer"
	"github.com/gcbaptista/go-reconcile/internal/logger"
	"github.com/gcbaptista/go-reconcile/internal/reconcile"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

// flags holds command-line overrides of the config file
type flags struct {
	configPath   string
	port         int
	gazetteerURL string
	logLevel     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Place-name reconciliation service",
		Long: "Reconciles free-text place names against the gazetteer and ranks the candidates,\n" +
			"optionally using property constraints such as country code or language.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), f)
		},
	}
	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().IntVar(&f.port, "port", 0, "Port to run the server on (overrides config)")
	rootCmd.PersistentFlags().StringVar(&f.gazetteerURL, "gazetteer-url", "", "Gazetteer base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the reconciliation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), f)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-reconcile v%s\n", version)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)
	return rootCmd
}

// loadSettings reads the config file, applies flag overrides and validates the result
func loadSettings(f *flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.port != 0 {
		cfg.Server.Port = f.port
	}
	if f.gazetteerURL != "" {
		cfg.Gazetteer.BaseURL = f.gazetteerURL
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// buildRouter wires the gazetteer client, catalog and reconciliation service into a gin router
func buildRouter(cfg *config.Config, baseLogger *log.Logger) (*gin.Engine, error) {
	propertyCatalog := catalog.Default()
	if descriptors := cfg.PropertyDescriptors(); descriptors != nil {
		custom, err := catalog.New(descriptors)
		if err != nil {
			return nil, fmt.Errorf("invalid property catalog: %w", err)
		}
		propertyCatalog = custom
	}

	client, err := gazetteer.NewClient(gazetteer.Options{
		BaseURL:           cfg.Gazetteer.BaseURL,
		SearchPath:        cfg.Gazetteer.SearchPath,
		PlacePath:         cfg.Gazetteer.PlacePath,
		Timeout:           cfg.GazetteerTimeout(),
		RequestsPerSecond: cfg.Gazetteer.RequestsPerSecond,
		Burst:             cfg.Gazetteer.Burst,
		Logger:            baseLogger.WithPrefix("gazetteer"),
	})
	if err != nil {
		return nil, err
	}

	service := reconcile.NewService(client, propertyCatalog, reconcile.Options{
		MaxParallelQueries: cfg.Reconcile.MaxParallelQueries,
		Logger:             baseLogger.WithPrefix("reconcile"),
	})

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	apiHandler := api.NewAPI(service, api.Options{
		Manifest: api.ManifestSettings{
			Name:            cfg.Service.Name,
			IdentifierSpace: cfg.Service.IdentifierSpace,
			SchemaSpace:     cfg.Service.SchemaSpace,
			ViewURL:         cfg.Service.ViewURL,
			PropertyType:    cfg.Service.PropertyType,
		},
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       baseLogger.WithPrefix("api"),
	})
	api.SetupRoutes(router, apiHandler)

	return router, nil
}

func runServe(ctx context.Context, f *flags) error {
	cfg, err := loadSettings(f)
	if err != nil {
		log.Error("Failed to load configuration", "err", err)
		return err
	}

	logger.SetGlobalLevel(cfg.Log.Level)
	baseLogger := logger.New("reconcile")

	router, err := buildRouter(cfg, baseLogger)
	if err != nil {
		baseLogger.Error("Failed to initialize server", "err", err)
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		baseLogger.Info("Starting server", "addr", cfg.Addr(), "gazetteer", cfg.Gazetteer.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			baseLogger.Error("Server failed", "err", err)
		}
		return err
	case <-ctx.Done():
	}

	baseLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
