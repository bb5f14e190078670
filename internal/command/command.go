// Package command maps the first word of an input line to a command that
// reads or changes the deck being built.
package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/deck"
	"github.com/arcanaland/deckcrafter/internal/query"
)

var (
	ErrCardNotFound   = errors.New("card not found")
	ErrUnknownCommand = errors.New("unknown command")

	// ErrExit ends the session. It is not a failure.
	ErrExit = errors.New("exit")
)

// UnknownCommandError is returned by Dispatch when no command has the given name
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownCommand, e.Name)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// Command is run with everything after the command name, trimmed
type Command interface {
	Execute(args string, d *deck.Deck, cards []card.Card) error
}

// Func adapts a function to a Command
type Func func(args string, d *deck.Deck, cards []card.Card) error

func (f Func) Execute(args string, d *deck.Deck, cards []card.Card) error {
	return f(args, d, cards)
}

// Usage is implemented by commands that describe themselves in help
type Usage interface {
	Usage() (use, short string)
}

// Registry holds the commands available to a session
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd under name, replacing any command already registered with it.
// Names are case-insensitive.
func (r *Registry) Register(name string, cmd Command) {
	r.commands[strings.ToLower(name)] = cmd
}

// Lookup returns the command registered under name
func (r *Registry) Lookup(name string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Names returns the registered command names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dispatch runs the command named by the first word of line.
//
// A line naming a card from cards is shorthand for "add <line>". Blank lines
// do nothing.
func (r *Registry) Dispatch(line string, d *deck.Deck, cards []card.Card) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	name, args := split(line)
	if _, ok := query.FindCard(cards, line); ok {
		name, args = "add", line
	}

	cmd, ok := r.Lookup(name)
	if !ok {
		return &UnknownCommandError{Name: name}
	}
	return cmd.Execute(args, d, cards)
}

// split cuts line at its first run of whitespace
func split(line string) (name, args string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}
