package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/deck"
	"github.com/arcanaland/deckcrafter/internal/query"
	"github.com/arcanaland/deckcrafter/internal/terminal"
)

// Env is what the built-in commands print to and export with.
// Selection points at the class the deck is built for and may change between commands.
type Env struct {
	Out       io.Writer
	Selection *card.ClassSelection
	Limits    deck.Limits
}

func (e Env) selection() card.ClassSelection {
	if e.Selection == nil {
		return card.ClassSelection{}
	}
	return *e.Selection
}

type builtin struct {
	use   string
	short string
	run   Func
}

func (b builtin) Execute(args string, d *deck.Deck, cards []card.Card) error {
	return b.run(args, d, cards)
}

func (b builtin) Usage() (string, string) {
	return b.use, b.short
}

// WithUsage wraps run in a command that describes itself in help
func WithUsage(use, short string, run Func) Command {
	return builtin{use: use, short: short, run: run}
}

// RegisterBuiltins adds add, rem, deck, exit, help, view, cards and deckcode to r
func RegisterBuiltins(r *Registry, env Env) {
	if env.Out == nil {
		env.Out = io.Discard
	}

	r.Register("add", builtin{"add [n] <card>", "Add a card to the deck, n times", env.add})
	r.Register("rem", builtin{"rem <card>", "Remove a card from the deck", env.remove})
	r.Register("deck", builtin{"deck", "Show the deck", env.showDeck})
	r.Register("view", builtin{"view <card>", "Show every field of a card", env.view})
	r.Register("cards", builtin{"cards [query]", "List the cards you can add, e.g. 'cards mana:2-4'", env.listCards})
	r.Register("deckcode", builtin{"deckcode", "Export the deck as a deckcode", env.deckcode})
	r.Register("exit", builtin{"exit", "Leave the deck creator", exit})
	r.Register("help", builtin{"help", "Show this list", func(string, *deck.Deck, []card.Card) error {
		return env.help(r)
	}})
}

func exit(string, *deck.Deck, []card.Card) error {
	return ErrExit
}

func (e Env) add(args string, d *deck.Deck, cards []card.Card) error {
	if args == "" {
		return fmt.Errorf("usage: add [n] <card>")
	}

	n := 1
	c, ok := query.FindCard(cards, args)
	if !ok {
		count, rest := split(args)
		parsed, err := strconv.Atoi(count)
		if err != nil || rest == "" {
			return fmt.Errorf("%w: %s", ErrCardNotFound, args)
		}
		if limit := max(e.Limits.MaxLength, deck.MaxAmount); parsed < 1 || parsed > limit {
			return fmt.Errorf("invalid amount: %d (must be between 1 and %d)", parsed, limit)
		}
		if c, ok = query.FindCard(cards, rest); !ok {
			return fmt.Errorf("%w: %s", ErrCardNotFound, rest)
		}
		n = parsed
	}

	for range n {
		d.Add(c)
	}
	return nil
}

func (e Env) remove(args string, d *deck.Deck, _ []card.Card) error {
	i := d.Index(args)
	if args == "" || i < 0 {
		return fmt.Errorf("%w in deck: %s", ErrCardNotFound, args)
	}
	return d.RemoveAt(i)
}

func (e Env) showDeck(_ string, d *deck.Deck, _ []card.Card) error {
	fmt.Fprintf(e.Out, "Deck Size: %s\n\n", color.YellowString("%d", d.Len()))

	var bricks []string
	for _, count := range d.Counts() {
		var brick string
		if count.Copies > 1 {
			brick = fmt.Sprintf("x%d ", count.Copies)
		}
		brick += terminal.ColorByRarity(count.Card.DisplayName(), count.Card.Rarity()) + " - " + count.Card.ID()
		bricks = append(bricks, brick)
	}

	for _, line := range terminal.Wall(bricks, " - ") {
		fmt.Fprintln(e.Out, line)
	}
	return nil
}

func (e Env) view(args string, _ *deck.Deck, cards []card.Card) error {
	c, ok := query.FindCard(cards, args)
	if args == "" || !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, args)
	}

	out, err := yaml.Marshal(c.Fields())
	if err != nil {
		return fmt.Errorf("error encoding card %s: %w", c.Name(), err)
	}

	fmt.Fprintln(e.Out, terminal.ColorByRarity(c.DisplayName(), c.Rarity()))
	_, err = e.Out.Write(out)
	return err
}

func (e Env) listCards(args string, _ *deck.Deck, cards []card.Card) error {
	matched, err := query.Search(cards, args)
	if err != nil {
		return err
	}

	if class := e.selection().ClassName; class != "" {
		color.New(color.FgCyan, color.Bold).Fprintln(e.Out, class)
	}

	bricks := make([]string, len(matched))
	for i, c := range matched {
		bricks[i] = terminal.ColorByRarity(c.DisplayName(), c.Rarity()) + " - " + c.ID()
	}
	for _, line := range terminal.Wall(bricks, " - ") {
		fmt.Fprintln(e.Out, line)
	}
	return nil
}

func (e Env) deckcode(_ string, d *deck.Deck, _ []card.Card) error {
	code, err := d.Deckcode(e.selection())
	if err != nil {
		return err
	}

	for _, warning := range d.Check(e.Limits) {
		terminal.Warn(e.Out, "WARNING: %s", warning)
	}
	fmt.Fprintln(e.Out, code)
	return nil
}

func (e Env) help(r *Registry) error {
	var bricks []string
	for _, name := range r.Names() {
		cmd, _ := r.Lookup(name)
		use, short := name, ""
		if u, ok := cmd.(Usage); ok {
			use, short = u.Usage()
		}
		bricks = append(bricks, use+" - "+short)
	}

	color.New(color.Bold).Fprintln(e.Out, "Available commands:")
	fmt.Fprintln(e.Out, strings.Join(terminal.Wall(bricks, " - "), "\n"))
	fmt.Fprintln(e.Out, "Typing a card name or id adds it to the deck.")
	return nil
}
