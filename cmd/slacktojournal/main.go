package main

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Jeff-002/SlackToJournal/internal/classify"
	"github.com/Jeff-002/SlackToJournal/internal/config"
	"github.com/Jeff-002/SlackToJournal/internal/domain"
	"github.com/Jeff-002/SlackToJournal/internal/infrastructure/drive"
	"github.com/Jeff-002/SlackToJournal/internal/infrastructure/gemini"
	"github.com/Jeff-002/SlackToJournal/internal/infrastructure/slackapi"
	"github.com/Jeff-002/SlackToJournal/internal/infrastructure/storage"
	"github.com/Jeff-002/SlackToJournal/internal/journal"
	"github.com/Jeff-002/SlackToJournal/internal/logging"
	"github.com/Jeff-002/SlackToJournal/internal/ports"
)

var (
	configPath string
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:           "slacktojournal",
		Short:         "Summarize Slack work discussions into a structured journal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newWeeklyCmd(),
		newDailyCmd(),
		newRetagCmd(),
		newHistoryCmd(),
		newScheduleCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired components for one CLI invocation.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	service    *journal.Service
	repository *storage.SQLiteRepository
	db         *sql.DB
}

// runOverrides carries per-command flag overrides applied on top of the
// loaded configuration.
type runOverrides struct {
	user      string
	uploadSet bool
	upload    bool
}

func buildApp(over runOverrides) *app {
	cfg := config.Load(configPath)
	if debug {
		cfg.Logging.Level = "debug"
	}
	if over.user != "" {
		cfg.Journal.UserFilter = over.user
	}
	if over.uploadSet {
		cfg.Drive.Upload = over.upload
	}
	logger := logging.New(cfg.Logging.Level)

	source := slackapi.NewClient(cfg.Slack.BotToken, nil, logger.With("component", "slack"))

	var ai ports.ChatClient
	if cfg.Gemini.APIKey != "" {
		ai = gemini.NewClient(cfg.Gemini)
	} else {
		logger.Info("gemini api key not configured, using rule-based summaries")
	}

	var uploader ports.Uploader
	if cfg.Drive.AccessToken != "" {
		uploader = drive.NewUploader(cfg.Drive)
	}

	var repository *storage.SQLiteRepository
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		logger.Warn("journal archive unavailable", "error", err)
	} else {
		repository = storage.NewSQLiteRepository(db)
	}

	rules := classify.NewRuleSet(cfg.Slack.ExcludeKeywords, os.Getenv(config.ExcludeKeywordsEnv))

	var repoPort ports.JournalRepository
	if repository != nil {
		repoPort = repository
	}

	service := journal.NewService(journal.Deps{
		Source:     source,
		AI:         ai,
		Uploader:   uploader,
		Repository: repoPort,
		Rules:      rules,
		Generation: ports.GenerationOptions{
			Temperature: cfg.Gemini.Temperature,
			MaxTokens:   cfg.Gemini.MaxTokens,
			MIMEType:    "text/plain",
		},
		Options: journal.Options{
			OutputDir:      cfg.Journal.OutputDir,
			UploadToDrive:  cfg.Drive.Upload,
			TargetChannels: cfg.Slack.TargetChannels,
			UserFilter:     cfg.Journal.UserFilter,
		},
		Logger: logger.With("component", "journal"),
	})

	return &app{cfg: cfg, logger: logger, service: service, repository: repository, db: db}
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func printResult(cmd *cobra.Command, result domain.Result) {
	mode := "rule-based"
	if result.UsedAI {
		mode = "ai"
	}
	cmd.Printf("processed %d messages (%s summary)\n", result.MessagesProcessed, mode)
	if result.RemoteLink != "" {
		cmd.Printf("uploaded: %s\n", result.RemoteLink)
	}
	if result.LocalPath != "" {
		cmd.Printf("saved: %s\n", result.LocalPath)
	}
}
