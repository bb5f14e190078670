// Package query filters, searches and sorts card sets.
// Every function returns a new slice and leaves its input untouched.
package query

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/arcanaland/deckcrafter/internal/card"
)

// NeutralClass is playable by every class
const NeutralClass = "Neutral"

// Filter returns the cards for which keep returns true, in input order
func Filter(cards []card.Card, keep func(card.Card) bool) []card.Card {
	out := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterCollectible removes uncollectible cards
func FilterCollectible(cards []card.Card) []card.Card {
	return Filter(cards, func(c card.Card) bool {
		return !c.Uncollectible()
	})
}

// FindClasses returns the playable classes, sorted, based on the starting hero cards
func FindClasses(cards []card.Card) []string {
	heroes := Filter(cards, card.Card.IsStartingHero)

	classes := make([]string, 0, len(heroes))
	for _, c := range heroes {
		classes = append(classes, strings.TrimSuffix(c.Name(), card.StartingHeroSuffix))
	}

	slices.Sort(classes)
	return slices.Compact(classes)
}

// FindCard returns the first card whose name matches case-insensitively or whose id matches exactly
func FindCard(cards []card.Card, nameOrID string) (card.Card, bool) {
	if i := FindIndex(cards, nameOrID); i >= 0 {
		return cards[i], true
	}
	return card.Card{}, false
}

// FindIndex is FindCard returning the position of the match, -1 if none
func FindIndex(cards []card.Card, nameOrID string) int {
	for i, c := range cards {
		if matches(c, nameOrID) {
			return i
		}
	}
	return -1
}

func matches(c card.Card, nameOrID string) bool {
	if strings.EqualFold(c.Name(), nameOrID) {
		return true
	}
	id := c.ID()
	return id != "" && id == nameOrID
}

// SetupCards returns the collectible cards playable by the selected class.
// A card's class tokens must equal "Neutral" or the class name exactly, and
// rune costs must be covered by the selected runes.
func SetupCards(cards []card.Card, sel card.ClassSelection) []card.Card {
	return Filter(FilterCollectible(cards), func(c card.Card) bool {
		return HasClass(c, sel.ClassName) && RunesSatisfied(c.Runes(), sel.Runes)
	})
}

// HasClass reports whether the card can be played by className
func HasClass(c card.Card, className string) bool {
	for _, class := range c.Classes() {
		if class == NeutralClass || class == className {
			return true
		}
	}
	return false
}

// RunesSatisfied reports whether have holds at least as many of each rune as need
func RunesSatisfied(need, have string) bool {
	if need == "" {
		return true
	}
	for _, r := range "BFU" {
		if strings.Count(strings.ToUpper(need), string(r)) > strings.Count(strings.ToUpper(have), string(r)) {
			return false
		}
	}
	return true
}

var costRange = regexp.MustCompile(`^(\d+)-(\d+)$`)

// Search returns the cards matching query.
//
// A bare query matches the name or description, case-insensitively.
// "key:value" compares the field selected by the JSONPath "$.key": strings
// by substring, numbers by equality. Cost keys also accept "min-max", "even"
// and "odd". A key missing from every card is an error.
func Search(cards []card.Card, query string) ([]card.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Filter(cards, func(card.Card) bool { return true }), nil
	}

	key, value, ok := strings.Cut(query, ":")
	if !ok {
		q := strings.ToLower(query)
		return Filter(cards, func(c card.Card) bool {
			return strings.Contains(strings.ToLower(c.DisplayName()), q) ||
				strings.Contains(strings.ToLower(c.Desc()), q)
		}), nil
	}

	key = strings.TrimSpace(key)
	value = strings.ToLower(strings.TrimSpace(value))
	path := key
	if !strings.HasPrefix(path, "$") {
		path = "$." + key
	}

	var out []card.Card
	found := false
	for _, c := range cards {
		results, err := c.Query(path)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			continue
		}
		found = true

		ok, err := matchValue(key, results, value)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}

	if !found && len(cards) > 0 {
		return nil, fmt.Errorf("key '%s' not valid", key)
	}
	if out == nil {
		out = []card.Card{}
	}
	return out, nil
}

func matchValue(key string, results []any, value string) (bool, error) {
	for _, r := range results {
		if n, ok := card.ToNumber(r); ok {
			match, err := matchNumber(key, n, value)
			if err != nil {
				return false, err
			}
			if match {
				return true, nil
			}
			continue
		}
		if strings.Contains(strings.ToLower(card.FormatValue(r)), value) {
			return true, nil
		}
	}
	return false, nil
}

func matchNumber(key string, n float64, value string) (bool, error) {
	if key == "mana" || key == "cost" {
		if m := costRange.FindStringSubmatch(value); m != nil {
			lo, _ := strconv.ParseFloat(m[1], 64)
			hi, _ := strconv.ParseFloat(m[2], 64)
			return n >= lo && n <= hi, nil
		}
		switch value {
		case "even":
			return math.Mod(n, 2) == 0, nil
		case "odd":
			return math.Mod(n, 2) == 1, nil
		}
	}

	want, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false, fmt.Errorf("value '%s' not valid", value)
	}
	return n == want, nil
}

// Sort keys
const (
	SortRarity = "rarity"
	SortName   = "name"
	SortType   = "type"
	SortCost   = "cost"
	SortID     = "id"
)

var rarityOrder = []string{"Free", "Common", "Rare", "Epic", "Legendary"}

// SortCards returns the cards ordered by key, ascending unless desc is set.
// The sort is stable so equal cards keep their relative order.
func SortCards(cards []card.Card, key string, desc bool) ([]card.Card, error) {
	var compare func(a, b card.Card) int
	switch key {
	case SortRarity:
		compare = func(a, b card.Card) int {
			return slices.Index(rarityOrder, a.Rarity()) - slices.Index(rarityOrder, b.Rarity())
		}
	case SortName:
		compare = func(a, b card.Card) int { return strings.Compare(a.DisplayName(), b.DisplayName()) }
	case SortType:
		compare = func(a, b card.Card) int { return strings.Compare(a.Type(), b.Type()) }
	case SortCost:
		compare = func(a, b card.Card) int {
			x, _ := a.Cost()
			y, _ := b.Cost()
			return compareFloat(x, y)
		}
	case SortID:
		compare = func(a, b card.Card) int {
			x, errX := strconv.ParseFloat(a.ID(), 64)
			y, errY := strconv.ParseFloat(b.ID(), 64)
			if errX != nil || errY != nil {
				return strings.Compare(a.ID(), b.ID())
			}
			return compareFloat(x, y)
		}
	default:
		return nil, fmt.Errorf("unknown sort key: %s", key)
	}

	out := slices.Clone(cards)
	slices.SortStableFunc(out, func(a, b card.Card) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out, nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
