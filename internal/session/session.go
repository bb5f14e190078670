// Package session runs the interactive deck creator: pick a class, then read
// one command per line until the user exits or the input ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/command"
	"github.com/arcanaland/deckcrafter/internal/deck"
	"github.com/arcanaland/deckcrafter/internal/query"
	"github.com/arcanaland/deckcrafter/internal/selector"
	"github.com/arcanaland/deckcrafter/internal/terminal"
)

// CommandPrompt is written before every command line
const CommandPrompt = "> "

// ErrNoClasses is returned when the card library has no starting heroes
var ErrNoClasses = errors.New("no classes found: the card library has no starting heroes")

// Options configure a session
type Options struct {
	Prompt     selector.Prompter
	Out        io.Writer
	MaxRetries int
	Limits     deck.Limits
	Logger     *zap.Logger
}

// DeckcodePrompt asks for a deckcode when import is run without one
const DeckcodePrompt = "Please input a deckcode: "

// Session owns the deck being built and feeds input lines to a registry.
//
// Library holds every loaded card. Cards is the part of it the selected
// class can play.
type Session struct {
	Registry  *command.Registry
	Deck      *deck.Deck
	Cards     []card.Card
	Library   []card.Card
	Selection card.ClassSelection
	Selector  *selector.Selector
	Prompt    selector.Prompter
	Out       io.Writer
	Logger    *zap.Logger
}

// Start asks for a class, narrows cards to the ones that class can play and
// runs the command loop. It returns the deck as it was when the loop ended.
func Start(ctx context.Context, cards []card.Card, opts Options) (*deck.Deck, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	classes := query.FindClasses(cards)
	if len(classes) == 0 {
		return nil, ErrNoClasses
	}

	s := &Session{
		Registry: command.NewRegistry(),
		Deck:     deck.New(),
		Library:  cards,
		Selector: selector.New(opts.Prompt, out, opts.MaxRetries),
		Prompt:   opts.Prompt,
		Out:      out,
		Logger:   logger,
	}

	sel, err := s.Selector.PickClass(classes)
	if errors.Is(err, io.EOF) {
		return s.Deck, nil
	}
	if err != nil {
		return nil, err
	}
	s.selectClass(sel)

	command.RegisterBuiltins(s.Registry, command.Env{
		Out:       out,
		Selection: &s.Selection,
		Limits:    opts.Limits,
	})
	s.Registry.Register("class", command.WithUsage("class", "Change the class, clearing the deck", s.changeClass))
	s.Registry.Register("import", command.WithUsage("import [code]", "Replace the deck with a deckcode", s.importDeck))

	s.banner()

	err = s.Run(ctx)
	return s.Deck, err
}

// selectClass makes sel the class of the session and narrows Cards to it
func (s *Session) selectClass(sel card.ClassSelection) {
	s.Selection = sel
	s.Cards = query.SetupCards(s.Library, sel)
	s.logger().Debug("class selected",
		zap.String("class", sel.ClassName),
		zap.String("runes", sel.Runes),
		zap.Int("cards", len(s.Cards)))
}

func (s *Session) banner() {
	color.New(color.FgCyan, color.Bold).Fprintf(s.output(), "%s: %d cards available. Type 'help' for a list of commands.\n", s.Selection.ClassName, len(s.Cards))
}

// changeClass asks for a class again. The deck is cleared when the class or runes change.
func (s *Session) changeClass(_ string, d *deck.Deck, _ []card.Card) error {
	if s.Selector == nil {
		return errors.New("the class cannot be changed in this session")
	}

	sel, err := s.Selector.PickClass(query.FindClasses(s.Library))
	if err != nil {
		return fmt.Errorf("class not changed: %w", err)
	}

	if sel == s.Selection {
		terminal.Warn(s.output(), "Your class was not changed")
		return nil
	}

	d.Reset()
	s.selectClass(sel)
	s.banner()
	return nil
}

// importDeck replaces the deck and the class with the ones in a deckcode.
// Every card of the code must be playable by its class.
func (s *Session) importDeck(args string, d *deck.Deck, _ []card.Card) error {
	code := args
	if code == "" {
		if s.Prompt == nil {
			return fmt.Errorf("usage: import <code>")
		}
		var err error
		if code, err = s.Prompt.Prompt(DeckcodePrompt); err != nil {
			return fmt.Errorf("error reading deckcode: %w", err)
		}
	}

	imported, sel, err := deck.Import(code, s.Library)
	if err != nil {
		return err
	}

	classes := query.FindClasses(s.Library)
	i := slices.IndexFunc(classes, func(class string) bool {
		return strings.EqualFold(class, sel.ClassName)
	})
	if i < 0 {
		return fmt.Errorf("%w: %s", selector.ErrInvalidClass, sel.ClassName)
	}
	sel.ClassName = classes[i]

	if (sel.ClassName == card.RuneClass) != (len(sel.Runes) == selector.RuneCount) {
		return fmt.Errorf("%w: %q for %s", selector.ErrInvalidRune, sel.Runes, sel.ClassName)
	}

	playable := query.SetupCards(s.Library, sel)
	for _, c := range imported.Cards() {
		if query.FindIndex(playable, c.ID()) < 0 {
			return fmt.Errorf("%s cannot be played by %s", c.Name(), sel.ClassName)
		}
	}

	d.Reset()
	for _, c := range imported.Cards() {
		d.Add(c)
	}
	s.selectClass(sel)

	fmt.Fprintf(s.output(), "Imported %d cards for %s\n", d.Len(), sel.ClassName)
	return nil
}

func (s *Session) output() io.Writer {
	if s.Out == nil {
		return io.Discard
	}
	return s.Out
}

func (s *Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Run reads and dispatches lines until exit, the end of the input or ctx is done.
// Command errors are printed and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	logger := s.logger()
	out := s.output()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.Prompt.Prompt(CommandPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading command: %w", err)
		}

		err = s.Registry.Dispatch(line, s.Deck, s.Cards)
		switch {
		case err == nil:
		case errors.Is(err, command.ErrExit):
			logger.Debug("session ended", zap.Int("deck_size", s.Deck.Len()))
			return nil
		default:
			logger.Debug("command failed", zap.String("line", line), zap.Error(err))
			terminal.Error(out, err)
		}
	}
}
