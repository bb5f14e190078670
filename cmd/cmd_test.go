package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	colorize "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/query"
	"github.com/arcanaland/deckcrafter/internal/repository"
)

func TestStarterCardsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeStarterCards(dir))
	// a second run keeps the existing files
	require.NoError(t, writeStarterCards(dir))

	cards, err := repository.LoadCards(dir, repository.Options{})
	require.NoError(t, err)
	assert.Len(t, cards, len(starterCards))
	assert.Equal(t, []string{"Death Knight", "Mage"}, query.FindClasses(cards))

	mage := query.SetupCards(cards, card.ClassSelection{ClassName: "Mage"})
	assert.Len(t, mage, 2)

	dk := query.SetupCards(cards, card.ClassSelection{ClassName: "Death Knight", Runes: "BFU"})
	assert.Len(t, dk, 1)
}

func TestDisplayCard(t *testing.T) {
	saved := colorize.NoColor
	colorize.NoColor = true
	t.Cleanup(func() { colorize.NoColor = saved })

	c := card.New(map[string]any{
		"name":   "Fireball",
		"id":     int64(4),
		"class":  "Mage",
		"type":   "Spell",
		"mana":   int64(4),
		"rarity": "Common",
		"desc":   "Deal 6 damage.",
	})

	var out bytes.Buffer
	displayCard(&out, c, 80)

	assert.Equal(t, "\n"+
		"  Card:   Fireball\n"+
		"  ID:     4\n"+
		"  Class:  Mage\n"+
		"  Type:   Spell\n"+
		"  Rarity: Common\n"+
		"  Cost:   4\n"+
		"  \n"+
		"  Description:\n"+
		"  Deal 6 damage.\n"+
		"\n", out.String())
}

func TestClassRetries(t *testing.T) {
	assert.Equal(t, 5, classRetries(strings.NewReader("Mage\n"), 5))

	f, err := os.Create(filepath.Join(t.TempDir(), "input"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	assert.Equal(t, 3, classRetries(f, 3))
}
