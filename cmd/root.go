package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/config"
	"github.com/arcanaland/deckcrafter/internal/repository"
	"github.com/arcanaland/deckcrafter/internal/session"
	"github.com/arcanaland/deckcrafter/internal/terminal"
)

var (
	cardsDir string
	verbose  bool

	logger = zap.NewNop()
	cfg    = config.Default()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "deckcrafter",
	Short: "Build decks from a library of card scripts",
	Long: `Deckcrafter reads the card definitions embedded in a directory of card scripts
and lets you build a deck for one class, one command at a time.

Run without arguments to start the deck creator. Type 'help' inside it for
the list of commands, or type a card name to add it to the deck.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()

		zapConfig := zap.NewProductionConfig()
		zapConfig.Encoding = "console"
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		c, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if cardsDir != "" {
			c.CardsDir = cardsDir
		}
		cfg = c

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := loadCards(cfg.CardsDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.FgCyan, color.Bold).Fprintln(out, "Deckcrafter")
		fmt.Fprintf(out, "%d cards loaded from %s\n\n", len(cards), cfg.CardsDir)

		_, err = session.Start(cmd.Context(), cards, session.Options{
			Prompt:     terminal.NewLinePrompter(cmd.InOrStdin(), out),
			Out:        out,
			MaxRetries: classRetries(cmd.InOrStdin(), cfg.MaxRetries),
			Limits:     cfg.Limits(),
			Logger:     logger,
		})
		return err
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cardsDir, "cards-dir", "", "Card directory, a path or a name in the card library (overrides the config file)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// classRetries returns the retry limit for class selection. A user at a
// terminal is asked until they answer; piped input uses the configured limit.
func classRetries(in io.Reader, configured int) int {
	if terminal.IsTerminal(in) {
		return 0
	}
	return configured
}

// loadCards loads every card in dir with the configured load options
func loadCards(dir string) ([]card.Card, error) {
	path, err := config.GetCardsPath(dir)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.RepositoryOptions(logger)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return repository.LoadCards(path, opts)
}
