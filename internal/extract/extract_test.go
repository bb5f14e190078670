package extract

import (
	"errors"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/deckcrafter/internal/card"
)

const bloodBoil = `// Created by the Custom Card Creator

/**
 * @type {import("../../../../../src/types").Blueprint}
 */
module.exports = {
    name: "Blood Boil",
    desc: "Lifesteal. Infect all enemy minions. At the end of your turns, they take $2 damage.",
    mana: 5,
    type: "Spell",
    class: "Death Knight",
    rarity: "Epic",
    set: "Path of Arthas",
    runes: "BB",
    spellClass: "Shadow",
    id: 192,

    /**
     * @type {import("../../../../../src/types").KeywordMethod}
     */
    cast(plr, game, self) {
        let infected = [];

        game.functions.addEventListener("EndTurn", (key, val) => {
            return game.player == plr;
        }, -1); // -1 means the passive lasts forever
    }
}
`

func TestExtractCardWithFunctions(t *testing.T) {
	c, err := Extract(bloodBoil)
	require.NoError(t, err)

	assert.Equal(t, "Blood Boil", c.Name())
	assert.Equal(t, "192", c.ID())
	assert.Equal(t, "Death Knight", c.Class())
	assert.Equal(t, "Shadow", c.SpellClass())
	assert.Equal(t, "BB", c.Runes())

	mana, ok := c.Get("mana")
	require.True(t, ok)
	assert.Equal(t, int64(5), mana)

	_, ok = c.Get("cast")
	assert.False(t, ok)
}

func TestExtractWithoutBlankLine(t *testing.T) {
	literal := `{
    "name": "Wisp",
    "id": 3,
    "stats": [1, 1],
    "uncollectible": false
}`
	c, err := Extract("module.exports = " + literal)
	require.NoError(t, err)

	direct, err := oj.ParseString(literal)
	require.NoError(t, err)
	assert.Equal(t, card.New(direct.(map[string]any)), c)
}

func TestExtractNormalizesTrailingComma(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "comma before blank line",
			input: "module.exports = {\n    name: \"Wisp\",\n    id: 3,\n\n    cast() {}\n}",
			want:  "{\n    \"name\": \"Wisp\",\n    \"id\": 3}",
		},
		{
			name:  "comma before closing brace",
			input: "module.exports = {\n    name: \"Wisp\",\n    id: 3,\n}",
			want:  "{\n    \"name\": \"Wisp\",\n    \"id\": 3\n}",
		},
		{
			name:  "already clean",
			input: "module.exports = {\n    name: \"Wisp\",\n    id: 3\n}",
			want:  "{\n    \"name\": \"Wisp\",\n    \"id\": 3\n}",
		},
		{
			name:  "trailing semicolon",
			input: "module.exports = {\n    name: \"Wisp\"\n};",
			want:  "{\n    \"name\": \"Wisp\"\n}",
		},
		{
			name:  "carriage returns",
			input: "module.exports = {\r\n    name: \"Wisp\",\r\n\r\n    cast() {}\r\n}",
			want:  "{\r\n    \"name\": \"Wisp\"}",
		},
	}

	e := New(nil, BoundaryBlankLine)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractNestedTrailingCommas(t *testing.T) {
	input := "module.exports = {\n" +
		"    name: \"Sludge Belcher\",\n" +
		"    keywords: [\n" +
		"        \"Taunt\",\n" +
		"    ],\n" +
		"    settings: {\n" +
		"        maxDeckSize: 40,\n" +
		"    },\n" +
		"    id: 7,\n" +
		"\n" +
		"    deathrattle(plr, self) {}\n" +
		"}"

	for _, boundary := range []Boundary{BoundaryBlankLine, BoundaryScan} {
		t.Run(boundary.String(), func(t *testing.T) {
			c, err := New(nil, boundary).Extract(input)
			require.NoError(t, err)

			v, _ := c.Get("keywords")
			assert.Equal(t, []any{"Taunt"}, v)
			v, _ = c.Get("settings")
			assert.Equal(t, map[string]any{"maxDeckSize": int64(40)}, v)
			assert.Equal(t, "7", c.ID())
		})
	}
}

func TestDropTrailingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"array", "[1, 2,\n]", "[1, 2\n]"},
		{"object", "{\"a\": 1, }", "{\"a\": 1 }"},
		{"nested", "{\"a\": [1,],}", "{\"a\": [1]}"},
		{"inside string", `{"a": "x,]",}`, `{"a": "x,]"}`},
		{"escaped quote", `{"a": "\",}",}`, `{"a": "\",}"}`},
		{"not trailing", "[1, 2]", "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropTrailingCommas(tt.input))
		})
	}
}

func TestExtractKeepsQuotedKeysAndValues(t *testing.T) {
	input := "module.exports = {\n    \"name\": \"Wisp\",\n    desc: \"Key: value, see https://example.com\",\n    id: 3\n}"
	got, err := New(nil, BoundaryBlankLine).Normalize(input)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"name\": \"Wisp\",\n    \"desc\": \"Key: value, see https://example.com\",\n    \"id\": 3\n}", got)
}

func TestExtractErrors(t *testing.T) {
	t.Run("marker not found", func(t *testing.T) {
		_, err := Extract("const card = {\n    name: \"Wisp\"\n}")
		assert.ErrorIs(t, err, ErrMarkerNotFound)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Extract("")
		assert.ErrorIs(t, err, ErrMarkerNotFound)
	})

	t.Run("nothing before the boundary", func(t *testing.T) {
		_, err := Extract("module.exports = \n\n{\n    name: \"Wisp\"\n}")
		assert.ErrorIs(t, err, ErrNoFieldBoundary)
	})

	t.Run("malformed record", func(t *testing.T) {
		_, err := Extract("module.exports = {\n    name: 'Wisp',\n}")
		require.ErrorIs(t, err, ErrMalformedRecord)

		var malformed *MalformedError
		require.True(t, errors.As(err, &malformed))
		assert.Contains(t, malformed.Text, "'Wisp'")
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := Extract("module.exports = [1, 2, 3]")
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})
}

func TestExtractCustomMarker(t *testing.T) {
	e := New([]string{"export const blueprint: Blueprint = "}, BoundaryBlankLine)
	c, err := e.Extract("export const blueprint: Blueprint = {\n    name: \"Frail Ghoul\",\n    id: 23,\n\n    create() {}\n}")
	require.NoError(t, err)
	assert.Equal(t, "Frail Ghoul", c.Name())
	assert.Equal(t, "23", c.ID())
}

func TestScanBoundary(t *testing.T) {
	input := `module.exports = {
    name: "Totem Pack",
    settings: {
        maxDeckSize: 40,

        minDeckSize: 10
    },
    id: 5,

    cast(plr, game) {
        return;
    }
}`

	_, err := New(nil, BoundaryBlankLine).Extract(input)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	c, err := New(nil, BoundaryScan).Extract(input)
	require.NoError(t, err)
	assert.Equal(t, "Totem Pack", c.Name())

	settings, ok := c.Get("settings")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"maxDeckSize": int64(40), "minDeckSize": int64(10)}, settings)
}

func TestScanFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "method shorthand",
			input: "{\n    name: \"A\",\n    cast(plr) {}\n}",
			want:  "{\n    name: \"A\",\n    ",
		},
		{
			name:  "async method",
			input: "{\n    id: 1,\n    async create(owner, self) {}\n}",
			want:  "{\n    id: 1,\n    ",
		},
		{
			name:  "arrow function value",
			input: "{\n    id: 1,\n    passive: (plr, game) => {}\n}",
			want:  "{\n    id: 1,\n    ",
		},
		{
			name:  "function value",
			input: "{\n    id: 1,\n    battlecry: function (plr) {}\n}",
			want:  "{\n    id: 1,\n    ",
		},
		{
			name:  "no methods",
			input: "{\n    id: 1,\n    stats: [1, 2]\n};\n\nfunction helper() {}",
			want:  "{\n    id: 1,\n    stats: [1, 2]\n}",
		},
		{
			name:  "brace inside string",
			input: "{\n    desc: \"{not a brace}\",\n    cast() {}\n}",
			want:  "{\n    desc: \"{not a brace}\",\n    ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanFields(tt.input))
		})
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"line comment", "a // b\nc", "a \nc"},
		{"block comment across lines", "c /* d\ne */ f", "c  f"},
		{"comment at end of input", "a // b", "a "},
		{"unterminated block", "a /* b", "a "},
		{"url in string", `x: "http://a.b"`, `x: "http://a.b"`},
		{"block marker in string", `x: '/* keep */'`, `x: '/* keep */'`},
		{"escaped quote", `x: "say \"//\"" // drop`, `x: "say \"//\"" `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.input))
		})
	}
}

func TestParseBoundary(t *testing.T) {
	b, err := ParseBoundary("scan")
	require.NoError(t, err)
	assert.Equal(t, BoundaryScan, b)

	b, err = ParseBoundary("")
	require.NoError(t, err)
	assert.Equal(t, BoundaryBlankLine, b)

	_, err = ParseBoundary("braces")
	assert.Error(t, err)
}
