package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/query"
	"github.com/arcanaland/deckcrafter/internal/terminal"
)

var cardsCmd = &cobra.Command{
	Use:   "cards [query]",
	Short: "List the cards in the card directory",
	Long: `Cards lists the collectible cards in the card directory as "name - id".

A query filters the list. A bare word matches names and descriptions, and
key:value matches a field: strings by substring, numbers exactly. Cost also
accepts a range or even/odd. Keys starting with $ are JSONPath expressions.

Examples:
  deckcrafter cards damage
  deckcrafter cards --class Mage mana:2-4
  deckcrafter cards --class "Death Knight" --runes BBU --sort mana
  deckcrafter cards '$.keywords[*]:taunt'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		runes, _ := cmd.Flags().GetString("runes")
		sortKey, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		all, _ := cmd.Flags().GetBool("all")

		cards, err := loadCards(cfg.CardsDir)
		if err != nil {
			return err
		}

		switch {
		case class != "":
			cards = query.SetupCards(cards, card.ClassSelection{ClassName: class, Runes: strings.ToUpper(runes)})
		case !all:
			cards = query.FilterCollectible(cards)
		}

		cards, err = query.Search(cards, strings.Join(args, " "))
		if err != nil {
			return err
		}

		if sortKey != "" {
			// "mana" is the name used in card files
			if sortKey == "mana" {
				sortKey = query.SortCost
			}
			if cards, err = query.SortCards(cards, sortKey, desc); err != nil {
				return err
			}
		}

		bricks := make([]string, len(cards))
		for i, c := range cards {
			bricks[i] = terminal.ColorByRarity(c.DisplayName(), c.Rarity()) + " - " + c.ID()
		}

		out := cmd.OutOrStdout()
		for _, line := range terminal.Wall(bricks, " - ") {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the classes defined by starting heroes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := loadCards(cfg.CardsDir)
		if err != nil {
			return err
		}

		classes := query.FindClasses(cards)
		if len(classes) == 0 {
			return fmt.Errorf("no starting heroes found in %s", cfg.CardsDir)
		}

		out := cmd.OutOrStdout()
		for _, class := range classes {
			playable := query.SetupCards(cards, card.ClassSelection{ClassName: class})
			fmt.Fprintf(out, "%s (%d cards)\n", class, len(playable))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cardsCmd)
	RootCmd.AddCommand(classesCmd)

	cardsCmd.Flags().StringP("class", "c", "", "Only show cards this class can play")
	cardsCmd.Flags().String("runes", "", "Runes of the class, e.g. BFU (Death Knight only)")
	cardsCmd.Flags().StringP("sort", "s", "", "Sort by rarity, name, type, cost or id")
	cardsCmd.Flags().Bool("desc", false, "Sort in descending order")
	cardsCmd.Flags().Bool("all", false, "Include uncollectible cards")
}
