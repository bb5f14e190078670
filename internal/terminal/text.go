package terminal

import (
	"strings"
	"unicode/utf8"
)

// Wall aligns bricks on the first occurrence of sep, padding the left part
// of each brick to the widest one. Colour escapes do not count toward the
// width. Bricks without sep are returned unchanged.
//
//	Wisp - 11          Wisp         - 11
//	Arcane Golem - 16  Arcane Golem - 16
func Wall(bricks []string, sep string) []string {
	widest := 0
	for _, brick := range bricks {
		left, _, ok := strings.Cut(brick, sep)
		if !ok {
			continue
		}
		widest = max(widest, VisibleWidth(left))
	}

	wall := make([]string, len(bricks))
	for i, brick := range bricks {
		left, right, ok := strings.Cut(brick, sep)
		if !ok {
			wall[i] = brick
			continue
		}
		wall[i] = left + strings.Repeat(" ", widest-VisibleWidth(left)) + sep + right
	}
	return wall
}

// WrapText wraps text to a specified width
func WrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var result []string
	var line string
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case VisibleWidth(line)+1+VisibleWidth(word) <= width:
			line += " " + word
		default:
			result = append(result, line)
			line = word
		}
	}
	return append(result, line)
}

// VisibleWidth counts the runes of s that are not part of an escape sequence
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == '\033':
			inEscape = true
		default:
			result.WriteRune(c)
		}
	}
	return result.String()
}
