package validator

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arcanaland/deckcrafter/internal/repository"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func cardSource(name string, id int, extra string) string {
	return "module.exports = {\n" +
		"    name: \"" + name + "\",\n" +
		extra +
		"    id: " + strconv.Itoa(id) + ",\n\n" +
		"    cast(plr, game, self) {}\n}\n"
}

func TestValidateValidLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Classes/Mage/hero.js", cardSource("Mage Starting Hero", 1, "    class: \"Mage\",\n    uncollectible: true,\n"))
	writeFile(t, dir, "Classes/Mage/fireball.js", cardSource("Fireball", 2, "    class: \"Mage\",\n    rarity: \"Common\",\n"))
	writeFile(t, dir, "Neutral/wisp.js", cardSource("Wisp", 3, "    class: \"Neutral\",\n    rarity: \"Common\",\n"))

	results, err := NewValidator(dir, repository.Options{Logger: zap.NewNop()}).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	assert.Empty(t, results.Warnings)
}

func TestValidateReportsProblems(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Classes/Mage/hero.js", cardSource("Mage Starting Hero", 1, "    class: \"Mage\",\n    uncollectible: true,\n"))
	writeFile(t, dir, "Classes/Mage/fireball.js", cardSource("Fireball", 2, "    class: \"Mage\",\n"))
	writeFile(t, dir, "Classes/Rogue/backstab.js", cardSource("Backstab", 4, "    class: \"Rogue\",\n"))
	writeFile(t, dir, "Neutral/runes.js", cardSource("Odd Runes", 5, "    class: \"Neutral\",\n    runes: \"BX\",\n"))
	writeFile(t, dir, "Neutral/wisp.js", cardSource("Wisp", 3, "    class: \"Neutral\",\n    rarity: \"Mythic\",\n"))
	writeFile(t, dir, "Neutral/wisp2.js", cardSource("wisp", 3, "    class: \"Neutral\",\n"))
	writeFile(t, dir, "broken.js", "module.exports = {\n    name: \"Broken\" id: 6\n}\n")
	writeFile(t, dir, "nameless.js", "module.exports = {\n    id: 7,\n    class: \"Neutral\"\n}\n")
	writeFile(t, dir, "classless.js", "module.exports = {\n    name: \"Classless\"\n}\n")

	// fail-fast is overridden so every source is reported
	results, err := NewValidator(dir, repository.Options{Policy: repository.FailFast}).Validate()
	require.NoError(t, err)

	require.Len(t, results.Errors, 3)
	assert.Contains(t, results.Errors[0], "broken.js: ")
	assert.Equal(t, "nameless.js: name is required", results.Errors[1])
	assert.Equal(t, `Neutral/runes.js: invalid runes "BX" (allowed: B, F, U)`, results.Errors[2])

	assert.Equal(t, []string{
		"classless.js: missing id",
		"classless.js: missing class",
		"Neutral/wisp2.js: duplicate id 3 (first used in Neutral/wisp.js)",
		`Neutral/wisp2.js: duplicate name "wisp" (first used in Neutral/wisp.js), only the first can be added by name`,
		"Neutral/wisp.js: unknown rarity Mythic (expected one of: Free, Common, Rare, Epic, Legendary)",
		"classes without a starting hero: Rogue",
	}, results.Warnings)
}

func TestValidateNoHeroes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wisp.js", cardSource("Wisp", 3, "    class: \"Neutral\",\n"))

	results, err := NewValidator(dir, repository.Options{}).Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"no starting heroes found, no class can be selected"}, results.Errors)
}

func TestValidateLongRunes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hero.js", cardSource("Death Knight Starting Hero", 1, "    class: \"Death Knight\",\n"))
	writeFile(t, dir, "plague.js", cardSource("Plague", 2, "    class: \"Death Knight\",\n    runes: \"UUUU\",\n"))

	results, err := NewValidator(dir, repository.Options{}).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	assert.Equal(t, []string{`plague.js: runes "UUUU" need more than 3 runes, the card can never be played`}, results.Warnings)
}

func TestValidateMissingDirectory(t *testing.T) {
	_, err := NewValidator(filepath.Join(t.TempDir(), "missing"), repository.Options{}).Validate()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
