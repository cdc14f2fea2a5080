package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fiihelp/internal/answer"
	"fiihelp/internal/audio"
	"fiihelp/internal/config"
	"fiihelp/internal/conversation"
	"fiihelp/internal/linker"
	"fiihelp/internal/logging"
	"fiihelp/internal/render"
	"fiihelp/internal/terminal"
	"fiihelp/internal/ui"
)

func main() {
	// Set the GetEnv function for config
	config.GetEnv = os.Getenv

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the root command. Flags default to the loaded
// configuration, so a flag overrides both .env and FIIHELP_* values.
func newRootCmd(cfg *config.Config) *cobra.Command {
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "fiihelp",
		Short: "Chat with the FiiHelp faculty assistant",
		Long: `FiiHelp answers questions about the faculty: timetables, admissions,
scholarships, accommodation and more.

Type a question and press enter. Answers link known topics to the faculty
pages. Record a voice note with ctrl+r, or /record and /stop in plain mode.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			l, err := logging.New(cfg.LogPath, cfg.Verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()
			return run(cmd.Context(), cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.AnswerURL, "answer-url", cfg.AnswerURL, "Answer service base URL")
	flags.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Answer request timeout")
	flags.StringVar(&cfg.KeywordsPath, "keywords", cfg.KeywordsPath, "TOML keyword table (built-in table when empty)")
	flags.StringSliceVar(&cfg.RecordCommand, "record-command", cfg.RecordCommand, "Recorder program and arguments, writing audio to stdout")
	flags.StringVar(&cfg.RecordMIME, "record-mime", cfg.RecordMIME, "MIME type of recorded audio")
	flags.StringVar(&cfg.Style, "style", cfg.Style, "Markdown style: auto, dark, light, notty")
	flags.BoolVar(&cfg.Plain, "plain", cfg.Plain, "Use the line-oriented interface")
	flags.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "Directory for exported transcripts")
	flags.StringVar(&cfg.LogPath, "log", cfg.LogPath, "Log file path (empty disables logging)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable debug logging")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keywords := linker.DefaultKeywords()
	if cfg.KeywordsPath != "" {
		loaded, err := linker.LoadKeywords(cfg.KeywordsPath)
		if err != nil {
			return err
		}
		keywords = loaded
	}
	keywordLinker := linker.New(keywords)

	store := conversation.NewSession()
	client := answer.NewClient(cfg.AnswerURL, cfg.RequestTimeout, logger)

	capture := audio.NewController(
		audio.NewCommandCapability(cfg.RecordCommand, cfg.RecordMIME),
		store,
		audio.WithLogger(logger),
	)
	defer func() {
		if err := capture.Close(); err != nil {
			logger.Warn("capture teardown failed", zap.Error(err))
		}
	}()

	markdown, err := render.NewTerminal(cfg.Style, terminal.Width(80)-6)
	if err != nil {
		return err
	}
	bodies := render.NewDisplay(markdown, keywordLinker, capture.Artifact)
	exporter := render.NewHTML()

	logger.Info("session started",
		zap.String("answer_url", cfg.AnswerURL),
		zap.Int("keywords", len(keywords)),
		zap.Bool("plain", cfg.Plain),
	)

	if cfg.Plain || !terminal.IsTerminal() {
		// Reading stdin does not observe ctx, so shut down from the handler.
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
			_ = capture.Close()
			_ = logger.Sync()
			os.Exit(0)
		}()

		session := terminal.NewSession(terminal.SessionConfig{
			Store:     store,
			Asker:     client,
			Capture:   capture,
			Bodies:    bodies,
			Exporter:  exporter,
			Linker:    keywordLinker,
			ExportDir: cfg.ExportDir,
			Logger:    logger,
			In:        os.Stdin,
			Out:       os.Stdout,
		})
		return session.Run(ctx)
	}

	model := ui.New(ctx, ui.Deps{
		Store:     store,
		Asker:     client,
		Capture:   capture,
		Display:   bodies,
		Exporter:  exporter,
		Linker:    keywordLinker,
		ExportDir: cfg.ExportDir,
		Logger:    logger,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}
