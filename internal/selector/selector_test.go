package selector

import (
	"bytes"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/deckcrafter/internal/card"
)

var classes = []string{"Death Knight", "Druid", "Mage"}

// scripted answers each prompt with the next line, then io.EOF
func scripted(lines ...string) (PromptFunc, *[]string) {
	var prompts []string
	return func(message string) (string, error) {
		prompts = append(prompts, message)
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}, &prompts
}

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestPickClassDeathKnight(t *testing.T) {
	prompt, prompts := scripted("death knight", "b", "f", "u")
	s := New(prompt, io.Discard, 5)

	sel, err := s.PickClass(classes)
	require.NoError(t, err)
	assert.Equal(t, card.ClassSelection{ClassName: "Death Knight", Runes: "BFU"}, sel)

	require.Len(t, *prompts, 4)
	assert.Contains(t, (*prompts)[0], "Death Knight, Druid, Mage")
	assert.Contains(t, (*prompts)[1], "(3 more)")
	assert.Contains(t, (*prompts)[3], "(1 more)")
}

func TestPickClassWithoutRunes(t *testing.T) {
	prompt, _ := scripted("  MAGE ")
	sel, err := New(prompt, io.Discard, 5).PickClass(classes)
	require.NoError(t, err)
	assert.Equal(t, card.ClassSelection{ClassName: "Mage"}, sel)
}

func TestPickClassRetries(t *testing.T) {
	var out bytes.Buffer
	prompt, prompts := scripted("Warlock", "", "druid")

	sel, err := New(prompt, &out, 5).PickClass(classes)
	require.NoError(t, err)
	assert.Equal(t, "Druid", sel.ClassName)
	assert.Len(t, *prompts, 3)
	assert.Contains(t, out.String(), `invalid class: "Warlock"`)
}

func TestPickClassMaxRetries(t *testing.T) {
	prompt, prompts := scripted("Warlock", "Rogue", "Mage")

	_, err := New(prompt, io.Discard, 2).PickClass(classes)
	assert.ErrorIs(t, err, ErrInvalidClass)
	assert.Len(t, *prompts, 2)
}

func TestPickClassUnbounded(t *testing.T) {
	answers := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "mage"}
	prompt, _ := scripted(answers...)

	sel, err := New(prompt, nil, 0).PickClass(classes)
	require.NoError(t, err)
	assert.Equal(t, "Mage", sel.ClassName)
}

func TestPickRunesRetries(t *testing.T) {
	prompt, prompts := scripted("Death Knight", "", "x", "Blood", "blood", "Unholy")

	sel, err := New(prompt, io.Discard, 5).PickClass(classes)
	require.NoError(t, err)
	assert.Equal(t, "BBU", sel.Runes)
	assert.Len(t, *prompts, 6)
}

func TestPickRunesMaxRetries(t *testing.T) {
	prompt, _ := scripted("Death Knight", "b", "x", "y")

	sel, err := New(prompt, io.Discard, 2).PickClass(classes)
	assert.ErrorIs(t, err, ErrInvalidRune)
	assert.Equal(t, card.ClassSelection{}, sel)
}

func TestPickClassInputError(t *testing.T) {
	prompt, _ := scripted()
	_, err := New(prompt, io.Discard, 0).PickClass(classes)
	assert.ErrorIs(t, err, io.EOF)

	prompt, _ = scripted("Death Knight", "b")
	_, err = New(prompt, io.Discard, 0).PickClass(classes)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCapitalizeAll(t *testing.T) {
	tests := map[string]string{
		"death knight":   "Death Knight",
		"DEMON   HUNTER": "Demon Hunter",
		"mage":           "Mage",
		"":               "",
		"élan vital":     "Élan Vital",
	}
	for in, want := range tests {
		assert.Equal(t, want, CapitalizeAll(in), in)
	}
}
