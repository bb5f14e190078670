package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/query"
	"github.com/arcanaland/deckcrafter/internal/repository"
)

var knownRarities = []string{"Free", "Common", "Rare", "Epic", "Legendary"}

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	CardsPath string
	Options   repository.Options
	Results   ValidationResults

	cards []card.Card
	paths []string
}

func NewValidator(cardsPath string, opts repository.Options) *Validator {
	// Every source is checked, so one bad card must not hide the others
	opts.Policy = repository.SkipInvalid
	opts.SkipUncollectible = false

	return &Validator{
		CardsPath: cardsPath,
		Options:   opts,
		Results:   ValidationResults{},
	}
}

// Validate loads the card library and reports what is wrong with it.
// Only an unreadable card directory is returned as an error.
func (v *Validator) Validate() (ValidationResults, error) {
	if err := v.loadCards(); err != nil {
		return v.Results, err
	}

	v.validateRequiredFields()
	v.validateDuplicates()
	v.validateRarities()
	v.validateRunes()
	v.validateClasses()

	return v.Results, nil
}

func (v *Validator) loadCards() error {
	res, err := repository.Load(v.CardsPath, v.Options)
	if err != nil {
		return fmt.Errorf("error loading cards: %w", err)
	}

	for _, skipped := range res.Skipped {
		v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("%s: %v", skipped.Path, skipped.Err))
	}

	v.cards = res.Cards
	v.paths = res.Paths
	return nil
}

// validateRequiredFields checks every card has a name, an id and a class
func (v *Validator) validateRequiredFields() {
	for i, c := range v.cards {
		if c.Name() == "" {
			v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("%s: name is required", v.paths[i]))
		}
		if c.ID() == "" {
			v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf("%s: missing id", v.paths[i]))
		}
		if len(c.Classes()) == 0 {
			v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf("%s: missing class", v.paths[i]))
		}
	}
}

// validateDuplicates checks ids and names are unique, since cards are looked up by either
func (v *Validator) validateDuplicates() {
	ids := make(map[string]string)
	names := make(map[string]string)

	for i, c := range v.cards {
		if id := c.ID(); id != "" {
			if first, ok := ids[id]; ok {
				v.Results.Warnings = append(v.Results.Warnings,
					fmt.Sprintf("%s: duplicate id %s (first used in %s)", v.paths[i], id, first))
			} else {
				ids[id] = v.paths[i]
			}
		}

		if name := strings.ToLower(c.Name()); name != "" {
			if first, ok := names[name]; ok {
				v.Results.Warnings = append(v.Results.Warnings,
					fmt.Sprintf("%s: duplicate name %q (first used in %s), only the first can be added by name", v.paths[i], c.Name(), first))
			} else {
				names[name] = v.paths[i]
			}
		}
	}
}

func (v *Validator) validateRarities() {
	for i, c := range v.cards {
		if r := c.Rarity(); r != "" && !slices.Contains(knownRarities, r) {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("%s: unknown rarity %s (expected one of: %s)", v.paths[i], r, strings.Join(knownRarities, ", ")))
		}
	}
}

// validateRunes checks rune costs only use B, F and U and fit in a rune selection
func (v *Validator) validateRunes() {
	for i, c := range v.cards {
		runes := c.Runes()
		if runes == "" {
			continue
		}

		if strings.Trim(strings.ToUpper(runes), "BFU") != "" {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("%s: invalid runes %q (allowed: B, F, U)", v.paths[i], runes))
		} else if len(runes) > 3 {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("%s: runes %q need more than 3 runes, the card can never be played", v.paths[i], runes))
		}
	}
}

// validateClasses checks the library has starting heroes and every class used has one
func (v *Validator) validateClasses() {
	classes := query.FindClasses(v.cards)
	if len(classes) == 0 {
		v.Results.Errors = append(v.Results.Errors, "no starting heroes found, no class can be selected")
		return
	}

	var missing []string
	for _, c := range v.cards {
		for _, class := range c.Classes() {
			if class == query.NeutralClass || slices.Contains(classes, class) || slices.Contains(missing, class) {
				continue
			}
			missing = append(missing, class)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("classes without a starting hero: %s", strings.Join(missing, ", ")))
	}
}
