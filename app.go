package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/metcalfc/tale/internal/config"
	"github.com/metcalfc/tale/internal/generate"
	"github.com/metcalfc/tale/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// session is everything a front end needs to run one reader.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	client generate.Client
	ctrl   *state.Controller
	prompt string
}

// promptReady reports whether prompt can be submitted.
func promptReady(prompt string) bool {
	return strings.TrimSpace(prompt) != ""
}

// applyFlags overrides environment configuration with flags set on the command line.
func applyFlags(cfg *config.Config, cmd *cli.Command) {
	if cmd.IsSet("lines") {
		cfg.LinesPerPage = cmd.Int("lines")
	}
	if cmd.IsSet("model") {
		cfg.Model = cmd.String("model")
	}
	if cmd.IsSet("replay") {
		cfg.ReplayFile = cmd.String("replay")
	}
	if cmd.IsSet("log") {
		cfg.Logging.Destination = cmd.String("log")
		if cfg.Logging.Level == "none" {
			cfg.Logging.Level = "normal"
		}
	}
	if cmd.Bool("debug") {
		cfg.Logging.Level = "debug"
	}
}

// newClient picks the replay client when a story file is configured and the
// OpenAI client otherwise.
func newClient(cfg *config.Config, log *zap.Logger) generate.Client {
	if cfg.ReplayFile != "" {
		return generate.NewReplay(cfg.ReplayFile, log)
	}
	return generate.NewOpenAI(generate.OpenAIConfig{
		APIKey:     string(cfg.APIKey),
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		MaxRetries: cfg.MaxRetries,
		Log:        log,
	})
}

func run(ctx context.Context, cmd *cli.Command) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, closeLog, err := cfg.Logging.Prepare()
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeLog())
	}()

	log.Info("Program started",
		zap.String("ver", version),
		zap.String("front_end", frontEnd),
		zap.String("model", cfg.Model),
		zap.Stringer("api_key", cfg.APIKey),
		zap.String("replay", cfg.ReplayFile),
		zap.Int("lines_per_page", cfg.LinesPerPage))

	s := &session{
		cfg:    cfg,
		log:    log,
		client: newClient(cfg, log),
		ctrl:   state.New(cfg.LinesPerPage, state.WithLogger(log.Named("state"))),
		prompt: strings.TrimSpace(cmd.String("prompt")),
	}
	if err := runReader(ctx, s); err != nil {
		log.Error("Program ended with error", zap.Error(err))
		return err
	}
	log.Info("Program ended")
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:            config.AppName,
		Usage:           "write a short crime story from a prompt and read it page by page",
		Version:         fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "lines", Aliases: []string{"l"}, Usage: "story lines per page (env TALE_LINES_PER_PAGE)"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "chat `MODEL` used to write the story (env TALE_MODEL)"},
			&cli.StringFlag{Name: "replay", Aliases: []string{"r"}, Usage: "read a saved story from `FILE` instead of generating one (" +
				strings.Join(generate.SupportedFormats(), ", ") + ", plain text)"},
			&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}, Usage: "start immediately with `TEXT` as the prompt"},
			&cli.StringFlag{Name: "log", Usage: "write log to `FILE` (env TALE_LOG_FILE)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log at debug level"},
		},
		Action: run,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
