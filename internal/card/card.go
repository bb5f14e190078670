package card

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// StartingHeroSuffix marks the card that defines a playable class
const StartingHeroSuffix = " Starting Hero"

// Card represents one extracted card record.
// Fields are held privately so a Card cannot be changed once built.
type Card struct {
	fields map[string]any
}

// New creates a card from parsed fields. The map is copied.
func New(fields map[string]any) Card {
	return Card{fields: copyMap(fields)}
}

// Get returns the raw value of a field
func (c Card) Get(key string) (any, bool) {
	v, ok := c.fields[key]
	return v, ok
}

// Fields returns a deep copy of all fields
func (c Card) Fields() map[string]any {
	return copyMap(c.fields)
}

// Query evaluates a JSONPath expression against the card fields.
func (c Card) Query(path string) ([]any, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid field path '%s': %w", path, err)
	}
	return x.Get(c.fields), nil
}

// Name returns the card name
func (c Card) Name() string {
	return c.str("name")
}

// DisplayName returns displayName when set, the name otherwise
func (c Card) DisplayName() string {
	if d := c.str("displayName"); d != "" {
		return d
	}
	return c.Name()
}

// ID returns the id field in string form. Whole numbers have no decimal point.
func (c Card) ID() string {
	v, ok := c.fields["id"]
	if !ok || v == nil {
		return ""
	}
	return FormatValue(v)
}

// Class returns the raw class field
func (c Card) Class() string {
	return c.str("class")
}

// Classes returns the class tokens of the card. The legacy "class" field is
// split on "/", the newer "classes" array is used as-is.
func (c Card) Classes() []string {
	var out []string
	if list, ok := c.fields["classes"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}

	class := c.Class()
	if class == "" {
		return nil
	}
	for _, part := range strings.Split(class, "/") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Uncollectible reports whether the card is marked as not collectible
func (c Card) Uncollectible() bool {
	if b, ok := c.fields["uncollectible"].(bool); ok && b {
		return true
	}
	if b, ok := c.fields["collectible"].(bool); ok && !b {
		return true
	}
	return false
}

// IsStartingHero reports whether the card defines a playable class
func (c Card) IsStartingHero() bool {
	return strings.HasSuffix(c.Name(), StartingHeroSuffix)
}

func (c Card) SpellClass() string { return c.str("spellClass") }
func (c Card) Rarity() string     { return c.str("rarity") }
func (c Card) Runes() string      { return c.str("runes") }
func (c Card) Type() string       { return c.str("type") }

// Desc returns the card text. Older cards use "desc", newer ones "text".
func (c Card) Desc() string {
	if d := c.str("desc"); d != "" {
		return d
	}
	return c.str("text")
}

// Cost returns the mana cost, read from "mana" or "cost"
func (c Card) Cost() (float64, bool) {
	for _, key := range []string{"mana", "cost"} {
		if n, ok := ToNumber(c.fields[key]); ok {
			return n, true
		}
	}
	return 0, false
}

func (c Card) str(key string) string {
	s, _ := c.fields[key].(string)
	return s
}

// ToNumber converts a parsed numeric value to float64
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// FormatValue renders a field value as plain text
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}
