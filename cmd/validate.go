package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckcrafter/internal/config"
	"github.com/arcanaland/deckcrafter/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a card directory",
	Long: `Validate extracts every card in a card directory and reports the cards that
cannot be loaded, duplicate names and ids, unknown rarities, invalid runes and
classes without a starting hero.

Without a path the card directory from your config is validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.CardsDir
		if len(args) == 1 {
			dir = args[0]
		}

		cardsPath, err := config.GetCardsPath(dir)
		if err != nil {
			return err
		}

		opts, err := cfg.RepositoryOptions(logger)
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Create validator and run validation
		v := validator.NewValidator(cardsPath, opts)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Validation Results:")
		fmt.Fprintln(out, "-------------------")

		if len(results.Errors) == 0 {
			fmt.Fprintf(out, "✅ Card directory '%s' is valid.\n", cardsPath)
		} else {
			fmt.Fprintf(out, "❌ Card directory '%s' has %d validation errors:\n", cardsPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Fprintln(out, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}
