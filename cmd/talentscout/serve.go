package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentscout/internal/archive"
	"github.com/jonathan/talentscout/internal/config"
	"github.com/jonathan/talentscout/internal/conversation"
	"github.com/jonathan/talentscout/internal/llm"
	"github.com/jonathan/talentscout/internal/logging"
	"github.com/jonathan/talentscout/internal/questions"
	"github.com/jonathan/talentscout/internal/server"
	"github.com/jonathan/talentscout/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the screening API server",
	Long:  `Start an HTTP server that exposes REST endpoints for the candidate screening conversation.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger, err := logging.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	llmConfig := llm.DefaultConfig()
	llmConfig.Timeout = cfg.LLMTimeout
	llmConfig.Temperature = cfg.Temperature
	llmConfig.MaxOutputTokens = int32(cfg.MaxTokens)

	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	recorder, cleanup, err := newRecorder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	store := session.NewStore(cfg.SessionTTL, cfg.CleanupInterval)
	generator := questions.NewGenerator(client, logger, cfg.LLMRetries)
	controller := conversation.NewController(generator, recorder, logger)

	srv := server.New(server.Config{Port: cfg.Port}, store, controller, jwtCfg, logger)
	return srv.Start()
}

// newRecorder picks the archive backend: Postgres when DATABASE_URL is set,
// JSON files in the data directory otherwise.
func newRecorder(ctx context.Context, cfg *config.Config, logger *zap.Logger) (archive.Recorder, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := archive.NewPostgresRecorder(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Postgres archive: %w", err)
		}
		logger.Info("archiving conversations to Postgres")
		return pg, pg.Close, nil
	}

	fr, err := archive.NewFileRecorder(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file archive: %w", err)
	}
	logger.Info("archiving conversations to files", zap.String("dir", cfg.DataDir))
	return fr, func() {}, nil
}
