// Package selector asks the user for a class and, for Death Knights, runes.
package selector

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/arcanaland/deckcrafter/internal/card"
)

// RuneCount is the number of runes a rune class picks
const RuneCount = 3

var (
	ErrInvalidClass = errors.New("invalid class")
	ErrInvalidRune  = errors.New("invalid rune")
)

// Prompter writes a prompt and returns one line of user input
type Prompter interface {
	Prompt(message string) (string, error)
}

// PromptFunc adapts a function to a Prompter
type PromptFunc func(message string) (string, error)

func (f PromptFunc) Prompt(message string) (string, error) { return f(message) }

// Selector picks the class a deck is built for.
//
// MaxRetries bounds the invalid answers accepted by each question. Zero
// means the selector keeps asking until it gets a valid answer, which only
// makes sense for an interactive terminal.
type Selector struct {
	Prompt     Prompter
	Out        io.Writer
	MaxRetries int
}

// New creates a selector
func New(prompt Prompter, out io.Writer, maxRetries int) *Selector {
	return &Selector{Prompt: prompt, Out: out, MaxRetries: maxRetries}
}

// PickClass asks for one of classes and returns the validated selection
func (s *Selector) PickClass(classes []string) (card.ClassSelection, error) {
	var sel card.ClassSelection

	question := "What class do you want to choose?\n" + strings.Join(classes, ", ") + "\n"
	for invalid := 0; ; {
		answer, err := s.Prompt.Prompt(question)
		if err != nil {
			return sel, err
		}

		if class, ok := matchClass(classes, CapitalizeAll(strings.TrimSpace(answer))); ok {
			sel.ClassName = class
			break
		}

		invalid++
		err = fmt.Errorf("%w: %q", ErrInvalidClass, strings.TrimSpace(answer))
		if s.exhausted(invalid) {
			return sel, err
		}
		s.warn(err)
	}

	if sel.ClassName != card.RuneClass {
		return sel, nil
	}

	runes, err := s.pickRunes()
	if err != nil {
		return card.ClassSelection{}, err
	}
	sel.Runes = runes
	return sel, nil
}

func (s *Selector) pickRunes() (string, error) {
	var runes strings.Builder

	for invalid := 0; runes.Len() < RuneCount; {
		question := fmt.Sprintf("What runes do you want to add (%d more)\nBlood, Frost, Unholy\n", RuneCount-runes.Len())
		answer, err := s.Prompt.Prompt(question)
		if err != nil {
			return "", err
		}

		answer = strings.TrimSpace(answer)
		if r, ok := parseRune(answer); ok {
			runes.WriteByte(r)
			continue
		}

		invalid++
		err = fmt.Errorf("%w: %q", ErrInvalidRune, answer)
		if s.exhausted(invalid) {
			return "", err
		}
		s.warn(err)
	}

	return strings.ToUpper(runes.String()), nil
}

func (s *Selector) exhausted(invalid int) bool {
	return s.MaxRetries > 0 && invalid >= s.MaxRetries
}

func (s *Selector) warn(err error) {
	if s.Out == nil {
		return
	}
	color.New(color.FgRed).Fprintln(s.Out, err)
}

// parseRune reads the rune from the first letter of an answer, so both "b"
// and "Blood" are accepted
func parseRune(answer string) (byte, bool) {
	if answer == "" {
		return 0, false
	}
	switch r := strings.ToUpper(answer[:1]); r {
	case "B", "F", "U":
		return r[0], true
	}
	return 0, false
}

func matchClass(classes []string, name string) (string, bool) {
	for _, class := range classes {
		if strings.EqualFold(class, name) {
			return class, true
		}
	}
	return "", false
}

// CapitalizeAll upper-cases the first letter of every word and lower-cases the rest
func CapitalizeAll(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
