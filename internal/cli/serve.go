package cli

import (
	"fmt"

	"intervue/internal/catalog"
	"intervue/internal/generate"
	"intervue/internal/interview"
	"intervue/internal/report"
	"intervue/internal/server"
	"intervue/internal/session"
	"intervue/internal/transcribe"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for interview sessions",
	Long: `Start an HTTP server that provides REST API endpoints for running mock interviews.

Available endpoints:
- GET  /roles: List available interview roles
- POST /sessions: Create an interview session for a role
- POST /sessions/{id}/start: Generate questions and start the interview
- POST /sessions/{id}/answers: Submit an answer
- POST /sessions/{id}/advance: Move to the next question
- POST /sessions/{id}/retreat: Return to the previous question
- POST /sessions/{id}/complete: Evaluate the interview and persist the report
- GET  /reports: List persisted interview reports
- GET  /health: Health check endpoint
- GET  /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	cat, err := catalog.Load(cfg.Storage.RolesFile)
	if err != nil {
		return fmt.Errorf("failed to load role catalog: %w", err)
	}

	if cfg.Storage.WatchCatalog {
		watcher := catalog.NewWatcher(cat, cfg.Storage.WatchDebounce, logger)
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch role catalog: %w", err)
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.LogError(err, "Failed to stop catalog watcher")
			}
		}()
	}

	generator, err := generate.NewService(cfg.Generation, logger)
	if err != nil {
		return fmt.Errorf("failed to create generation service: %w", err)
	}
	defer func() {
		if err := generator.Close(); err != nil {
			logger.LogError(err, "Failed to close generation service")
		}
	}()

	bridge, err := transcribe.NewBridge(cfg.Transcription, cfg.Audio.SampleRate, logger)
	if err != nil {
		return fmt.Errorf("failed to create transcription bridge: %w", err)
	}

	reports, err := report.NewStore(cfg.Storage.ReportsDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}

	checkpointer, err := session.NewCheckpointer(cfg.Storage.SessionsDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	runner := interview.NewRunner(cfg, cat, generator, bridge, reports, checkpointer, logger)

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, runner, logger).Start()
}
