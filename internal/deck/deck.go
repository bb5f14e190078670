package deck

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/arcanaland/deckcrafter/internal/card"
)

var (
	// ErrEmptyDeck is returned when exporting a deck without cards
	ErrEmptyDeck = errors.New("deck is empty")

	ErrInvalidDeckcode = errors.New("invalid deckcode")
)

// MaxAmount bounds the copies of one card added at once, by a command or a deckcode
const MaxAmount = 30

// Deck represents the cards picked during a session, in the order they were added
type Deck struct {
	cards []card.Card
}

// New creates an empty deck
func New() *Deck {
	return &Deck{}
}

// Add appends a card to the end of the deck
func (d *Deck) Add(c card.Card) {
	d.cards = append(d.cards, c)
}

// RemoveAt removes the card at index i by moving the last card into its slot.
// The order of the remaining cards is not preserved.
func (d *Deck) RemoveAt(i int) error {
	if i < 0 || i >= len(d.cards) {
		return fmt.Errorf("index out of range: %d", i)
	}

	last := len(d.cards) - 1
	d.cards[i] = d.cards[last]
	d.cards[last] = card.Card{}
	d.cards = d.cards[:last]
	return nil
}

// Reset removes every card from the deck
func (d *Deck) Reset() {
	d.cards = nil
}

// Index returns the position of the first card matching nameOrID, -1 if none
func (d *Deck) Index(nameOrID string) int {
	return slices.IndexFunc(d.cards, func(c card.Card) bool {
		if strings.EqualFold(c.Name(), nameOrID) {
			return true
		}
		id := c.ID()
		return id != "" && id == nameOrID
	})
}

// Cards returns a copy of the deck contents
func (d *Deck) Cards() []card.Card {
	return slices.Clone(d.cards)
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Count is a card and the number of copies of it in a deck
type Count struct {
	Card   card.Card
	Copies int
}

// Counts groups the deck by card name, in order of first appearance
func (d *Deck) Counts() []Count {
	var counts []Count
	index := make(map[string]int)

	for _, c := range d.cards {
		if i, ok := index[c.Name()]; ok {
			counts[i].Copies++
			continue
		}
		index[c.Name()] = len(counts)
		counts = append(counts, Count{Card: c, Copies: 1})
	}

	return counts
}

// Deckcode exports the deck as a shareable code:
//
//	Class [RUNES] /copies:amount,.../ id,id
//
// Cards are grouped by copies, fewest first. Every group but the last writes
// "copies:amount"; the last writes only its copies. Ids are written in base 36.
// Three identical runes are shortened, so "BBB" becomes "3B".
func (d *Deck) Deckcode(sel card.ClassSelection) (string, error) {
	if len(d.cards) == 0 {
		return "", ErrEmptyDeck
	}

	var b strings.Builder
	b.WriteString(sel.ClassName)
	b.WriteString(" ")

	if runes := strings.ToUpper(sel.Runes); runes != "" {
		if strings.Count(runes, runes[:1]) == len(runes) {
			fmt.Fprintf(&b, "[%d%s] ", len(runes), runes[:1])
		} else {
			fmt.Fprintf(&b, "[%s] ", runes)
		}
	}

	counts := d.Counts()
	slices.SortStableFunc(counts, func(a, b Count) int {
		return a.Copies - b.Copies
	})

	b.WriteString("/")
	for i := 0; i < len(counts); {
		copies := counts[i].Copies
		amount := 0
		for i < len(counts) && counts[i].Copies == copies {
			amount++
			i++
		}

		if i == len(counts) {
			b.WriteString(strconv.Itoa(copies))
		} else {
			fmt.Fprintf(&b, "%d:%d,", copies, amount)
		}
	}
	b.WriteString("/ ")

	ids := make([]string, len(counts))
	for i, c := range counts {
		ids[i] = encodeID(c.Card.ID())
	}
	b.WriteString(strings.Join(ids, ","))

	return b.String(), nil
}

func encodeID(id string) string {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return id
	}
	return strconv.FormatInt(n, 36)
}

// Import reads a deckcode written by Deckcode and resolves its ids against cards.
// It returns the deck and the class selection the code was exported for.
func Import(code string, cards []card.Card) (*Deck, card.ClassSelection, error) {
	var sel card.ClassSelection

	header, body, ok := strings.Cut(strings.TrimSpace(code), "/")
	if !ok {
		return nil, sel, fmt.Errorf("%w: missing copy counts", ErrInvalidDeckcode)
	}
	groups, idList, ok := strings.Cut(body, "/")
	if !ok {
		return nil, sel, fmt.Errorf("%w: missing copy counts", ErrInvalidDeckcode)
	}

	sel, err := parseHeader(header)
	if err != nil {
		return nil, sel, err
	}

	var ids []string
	for _, id := range strings.Split(idList, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, sel, fmt.Errorf("%w: no cards", ErrInvalidDeckcode)
	}

	copies, err := parseGroups(groups, len(ids))
	if err != nil {
		return nil, sel, err
	}

	d := New()
	for i, id := range ids {
		c, ok := findEncoded(cards, id)
		if !ok {
			return nil, sel, fmt.Errorf("%w: unknown card id %s", ErrInvalidDeckcode, id)
		}
		for range copies[i] {
			d.Add(c)
		}
	}
	return d, sel, nil
}

// parseHeader reads "Class [RUNES] "
func parseHeader(header string) (card.ClassSelection, error) {
	var sel card.ClassSelection

	header = strings.TrimSpace(header)
	if i := strings.LastIndex(header, "["); i >= 0 && strings.HasSuffix(header, "]") {
		runes := strings.ToUpper(header[i+1 : len(header)-1])
		header = strings.TrimSpace(header[:i])

		if len(runes) == 2 && runes[0] >= '1' && runes[0] <= '9' {
			runes = strings.Repeat(runes[1:], int(runes[0]-'0'))
		}
		if strings.Trim(runes, "BFU") != "" {
			return sel, fmt.Errorf("%w: invalid runes %q", ErrInvalidDeckcode, runes)
		}
		sel.Runes = runes
	}

	if header == "" {
		return sel, fmt.Errorf("%w: missing class", ErrInvalidDeckcode)
	}
	sel.ClassName = header
	return sel, nil
}

// parseGroups expands "copies:amount,...,copies" into the copies of each of n cards
func parseGroups(groups string, n int) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(groups), ",")
	copies := make([]int, 0, n)

	for i, part := range parts {
		last := i == len(parts)-1

		count, amount, hasAmount := strings.Cut(strings.TrimSpace(part), ":")
		if hasAmount == last {
			return nil, fmt.Errorf("%w: bad copy group %q", ErrInvalidDeckcode, part)
		}

		c, err := strconv.Atoi(count)
		if err != nil || c < 1 || c > MaxAmount {
			return nil, fmt.Errorf("%w: bad copy count %q", ErrInvalidDeckcode, count)
		}

		a := n - len(copies)
		if !last {
			a, err = strconv.Atoi(amount)
			if err != nil || a < 1 {
				return nil, fmt.Errorf("%w: bad card amount %q", ErrInvalidDeckcode, amount)
			}
		}
		if a < 1 || len(copies)+a > n {
			return nil, fmt.Errorf("%w: copy counts do not match %d cards", ErrInvalidDeckcode, n)
		}

		for range a {
			copies = append(copies, c)
		}
	}

	return copies, nil
}

// findEncoded finds the card with a base 36 id, falling back to the id as written
func findEncoded(cards []card.Card, id string) (card.Card, bool) {
	decoded := id
	if n, err := strconv.ParseInt(id, 36, 64); err == nil {
		decoded = strconv.FormatInt(n, 10)
	}

	for _, want := range []string{decoded, id} {
		i := slices.IndexFunc(cards, func(c card.Card) bool { return c.ID() == want })
		if i >= 0 {
			return cards[i], true
		}
	}
	return card.Card{}, false
}

// Limits bounds the size of a deck and the copies of each card
type Limits struct {
	MinLength          int
	MaxLength          int
	MaxCopies          int
	MaxLegendaryCopies int
}

// DefaultLimits are the constructed deck rules
var DefaultLimits = Limits{
	MinLength:          30,
	MaxLength:          30,
	MaxCopies:          2,
	MaxLegendaryCopies: 1,
}

// Check returns a warning for every limit the deck breaks.
// A zero limit is not checked.
func (d *Deck) Check(limits Limits) []string {
	var warnings []string

	if limits.MinLength > 0 && len(d.cards) < limits.MinLength {
		warnings = append(warnings, fmt.Sprintf("too few cards: %d (minimum %d)", len(d.cards), limits.MinLength))
	}
	if limits.MaxLength > 0 && len(d.cards) > limits.MaxLength {
		warnings = append(warnings, fmt.Sprintf("too many cards: %d (maximum %d)", len(d.cards), limits.MaxLength))
	}

	for _, c := range d.Counts() {
		limit := limits.MaxCopies
		if c.Card.Rarity() == "Legendary" {
			limit = limits.MaxLegendaryCopies
		}
		if limit > 0 && c.Copies > limit {
			warnings = append(warnings, fmt.Sprintf("too many copies of %s: %d (maximum %d)", c.Card.Name(), c.Copies, limit))
		}
	}

	return warnings
}
