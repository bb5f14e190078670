// Package terminal handles line input and coloured, width-aware output.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal
const DefaultWidth = 80

// LinePrompter writes a prompt and reads one line of input per call
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading from in and writing prompts to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt writes message and returns the next line without its line ending.
// A final line without a newline is returned as is; io.EOF is returned once
// the input is exhausted.
func (p *LinePrompter) Prompt(message string) (string, error) {
	if _, err := io.WriteString(p.out, message); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Width returns the column count of w if it is a terminal, DefaultWidth otherwise
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultWidth
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// IsTerminal reports whether r is an interactive terminal
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Rarity palette. Free cards and unknown rarities are not coloured.
var rarityColors = map[string]string{
	"Common":    "#a0a0a0",
	"Rare":      "#3b8eea",
	"Epic":      "#ff55ff",
	"Legendary": "#ffd700",
}

// RarityColor returns the colour used for rarity
func RarityColor(rarity string) (colorful.Color, bool) {
	hex, ok := rarityColors[rarity]
	if !ok {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// ColorByRarity wraps text in the 24-bit colour of rarity.
// Nothing is added when colour output is disabled.
func ColorByRarity(text, rarity string) string {
	c, ok := RarityColor(rarity)
	if !ok || color.NoColor {
		return text
	}
	return ansiColorString(text, c)
}

// ansiColorString formats text with a truecolor foreground escape
func ansiColorString(text string, c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, text)
}

// Error prints err in red
func Error(w io.Writer, err error) {
	color.New(color.FgRed).Fprintln(w, err)
}

// Warn prints a yellow warning line
func Warn(w io.Writer, format string, a ...any) {
	color.New(color.FgYellow).Fprintf(w, format+"\n", a...)
}

// CardArt draws a card face in the colour of rarity, fading towards the
// bottom. Each line packs two pixel rows into upper half blocks. No art is
// drawn when colour output is disabled.
func CardArt(rarity string, width, height int) []string {
	if color.NoColor || width <= 0 || height <= 0 {
		return nil
	}

	base, ok := RarityColor(rarity)
	if !ok {
		base, _ = colorful.Hex("#5c5c5c")
	}
	black := colorful.Color{}

	rows := height * 2
	pixel := func(x, y int) colorful.Color {
		if x == 0 || y == 0 || x == width-1 || y == rows-1 {
			return base
		}
		return base.BlendLab(black, 0.3+0.5*float64(y)/float64(rows)).Clamped()
	}

	lines := make([]string, 0, height)
	for y := 0; y < rows; y += 2 {
		var line strings.Builder
		for x := 0; x < width; x++ {
			line.WriteString(ansiBlockString('▀', pixel(x, y), pixel(x, y+1)))
		}
		lines = append(lines, line.String())
	}
	return lines
}

// ansiBlockString formats a character with truecolor foreground and background escapes
func ansiBlockString(char rune, fg, bg colorful.Color) string {
	r1, g1, b1 := fg.RGB255()
	r2, g2, b2 := bg.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m", r1, g1, b1, r2, g2, b2, char)
}
