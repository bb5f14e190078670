package cmd

import (
	"fmt"
	"io"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/query"
	"github.com/arcanaland/deckcrafter/internal/terminal"
)

var showCmd = &cobra.Command{
	Use:   "show [card]",
	Short: "Display information about a specific card",
	Long: `Show displays a card from the card directory next to a card face coloured by
its rarity. The card can be given by name (case-insensitive) or by id.

Examples:
  deckcrafter show "Blood Boil"
  deckcrafter show 192
  deckcrafter show --fields Wisp`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nameOrID := strings.Join(args, " ")

		cards, err := loadCards(cfg.CardsDir)
		if err != nil {
			return err
		}

		c, ok := query.FindCard(cards, nameOrID)
		if !ok {
			return fmt.Errorf("card not found: %s", nameOrID)
		}

		out := cmd.OutOrStdout()
		fields, _ := cmd.Flags().GetBool("fields")
		if fields {
			data, err := yaml.Marshal(c.Fields())
			if err != nil {
				return fmt.Errorf("error encoding card: %w", err)
			}
			_, err = out.Write(data)
			return err
		}

		displayCard(out, c, terminal.Width(out))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("fields", false, "Print every field of the card as YAML")
}

// displayCard displays the card information next to its card face
func displayCard(out io.Writer, c card.Card, width int) {
	art := terminal.CardArt(c.Rarity(), 12, 8)
	artWidth := 0
	for _, line := range art {
		artWidth = max(artWidth, terminal.VisibleWidth(line))
	}

	var infoLines []string
	info := func(label, value string) {
		if value != "" {
			infoLines = append(infoLines, colorize.CyanString("%-8s", label+":")+colorize.HiWhiteString("%s", value))
		}
	}

	info("Card", terminal.ColorByRarity(c.DisplayName(), c.Rarity()))
	info("ID", c.ID())
	info("Class", c.Class())
	info("Type", strings.TrimSpace(c.Type()+" "+c.SpellClass()))
	info("Rarity", c.Rarity())
	if cost, ok := c.Cost(); ok {
		info("Cost", card.FormatValue(cost))
	}
	info("Runes", c.Runes())

	spacing := 4
	infoStartCol := artWidth + spacing
	if artWidth == 0 {
		infoStartCol = 0
	}

	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	if desc := c.Desc(); desc != "" {
		infoLines = append(infoLines, "", colorize.CyanString("Description:"))
		infoLines = append(infoLines, terminal.WrapText(desc, infoWidth)...)
	}

	fmt.Fprintln(out)

	maxLines := max(len(art), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Fprint(out, "  ")
		if i < len(art) {
			fmt.Fprint(out, art[i])
			fmt.Fprint(out, strings.Repeat(" ", infoStartCol-terminal.VisibleWidth(art[i])))
		} else {
			fmt.Fprint(out, strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Fprint(out, infoLines[i])
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out)
}
