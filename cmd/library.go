package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckcrafter/internal/config"
	"github.com/arcanaland/deckcrafter/internal/query"
	"github.com/arcanaland/deckcrafter/internal/repository"
)

// libraryCmd represents the library command group
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage card directories in your card library",
	Long:  `Commands for managing the card directories in your card library.`,
}

// libraryListCmd represents the library ls command
var libraryListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List card directories in your card library",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		libraryPath := config.GetCardLibraryPath()

		// Check if card library exists
		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			fmt.Fprintf(out, "Card library at %s does not exist.\n", libraryPath)
			fmt.Fprintln(out, "Run 'deckcrafter library init' to create it.")
			return nil
		}

		libraryPath, err := filepath.EvalSymlinks(libraryPath)
		if err != nil {
			return fmt.Errorf("error resolving symbolic link: %w", err)
		}

		entries, err := os.ReadDir(libraryPath)
		if err != nil {
			return fmt.Errorf("error reading card library: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No card directories found in your card library.")
			fmt.Fprintln(out, "You can add cards by copying them to:", libraryPath)
			return nil
		}

		opts, err := cfg.RepositoryOptions(logger)
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		opts.Policy = repository.SkipInvalid

		for _, entry := range entries {
			entryPath := filepath.Join(libraryPath, entry.Name())
			fileInfo, err := os.Stat(entryPath)
			if err != nil || !fileInfo.IsDir() {
				continue
			}

			res, err := repository.Load(entryPath, opts)
			if err != nil {
				continue
			}

			marker := " "
			if entry.Name() == cfg.CardsDir {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s (%d cards, %d classes)\n",
				marker, entry.Name(), len(res.Cards), len(query.FindClasses(res.Cards)))
		}
		return nil
	},
}

// libraryUseCmd represents the library use command
var libraryUseCmd = &cobra.Command{
	Use:   "use [name_or_path]",
	Short: "Set the card directory used by default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		cards, err := loadCards(dir)
		if err != nil {
			return fmt.Errorf("not a valid card directory: %w", err)
		}

		if err := config.SetCardsDir(dir); err != nil {
			return fmt.Errorf("error setting card directory: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Card directory set to: %s (%d cards)\n", dir, len(cards))
		return nil
	},
}

// libraryInitCmd represents the library init command
var libraryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the card library with a starter card set",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		starterPath := filepath.Join(config.GetCardLibraryPath(), "starter")

		if err := writeStarterCards(starterPath); err != nil {
			return fmt.Errorf("error creating card library: %w", err)
		}
		fmt.Fprintln(out, "Card library initialized at:", config.GetCardLibraryPath())
		fmt.Fprintln(out, "Run 'deckcrafter library use starter' to build decks from the starter cards.")

		// LoadConfig has already created the config file if it was missing
		fmt.Fprintln(out, "Config file at:", config.GetConfigFilePath())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryUseCmd)
	libraryCmd.AddCommand(libraryInitCmd)
}

var starterCards = map[string]string{
	"Heroes/mage.js": `module.exports = {
    name: "Mage Starting Hero",
    displayName: "Jaina Proudmoore",
    desc: "Mage starting hero",
    mana: 0,
    type: "Hero",
    class: "Mage",
    rarity: "Free",
    hpDesc: "Deal 1 damage.",
    uncollectible: true,
    id: 1,

    heropower(plr, game, self) {
    }
}
`,
	"Heroes/death_knight.js": `module.exports = {
    name: "Death Knight Starting Hero",
    displayName: "The Lich King",
    desc: "Death Knight starting hero",
    mana: 0,
    type: "Hero",
    class: "Death Knight",
    rarity: "Free",
    uncollectible: true,
    id: 2,

    heropower(plr, game, self) {
    }
}
`,
	"Neutral/wisp.js": `module.exports = {
    name: "Wisp",
    stats: [1, 1],
    desc: "",
    mana: 0,
    type: "Minion",
    tribe: "None",
    class: "Neutral",
    rarity: "Common",
    id: 3
}
`,
	"Mage/fireball.js": `// Created by hand

module.exports = {
    name: "Fireball",
    desc: "Deal 6 damage.",
    mana: 4,
    type: "Spell",
    class: "Mage",
    rarity: "Common",
    spellClass: "Fire",
    id: 4,

    cast(plr, game, self) {
    }
}
`,
	"Death Knight/blood_boil.js": `module.exports = {
    name: "Blood Boil",
    desc: "Lifesteal. Deal 2 damage to all enemy minions.",
    mana: 5,
    type: "Spell",
    class: "Death Knight",
    rarity: "Epic",
    runes: "BB",
    id: 5,

    cast(plr, game, self) {
    }
}
`,
}

// writeStarterCards writes the starter set, keeping files that already exist
func writeStarterCards(dir string) error {
	for rel, content := range starterCards {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
