// Package repository loads every card found in a card source directory.
package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/arcanaland/deckcrafter/internal/card"
	"github.com/arcanaland/deckcrafter/internal/extract"
)

// IgnoreFile holds extra exclusion patterns, gitignore syntax, at the root of
// a card directory
const IgnoreFile = ".cardignore"

var (
	// DefaultExtensions are the card source markers looked for in file names
	DefaultExtensions = []string{".js"}

	// DefaultExclude skips test and example fixtures
	DefaultExclude = []string{"Tests/", "Examples/"}
)

// Policy decides what happens when a card source fails to extract
type Policy int

const (
	// FailFast aborts the whole load on the first failure
	FailFast Policy = iota
	// SkipInvalid logs the failure and keeps going
	SkipInvalid
)

func (p Policy) String() string {
	if p == SkipInvalid {
		return "skip"
	}
	return "fail-fast"
}

// ParsePolicy parses the configuration name of a load policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "skip", "skip-invalid":
		return SkipInvalid, nil
	}
	return FailFast, fmt.Errorf("unknown load policy: %s", s)
}

// Options controls which files are loaded and how failures are handled
type Options struct {
	Extensions        []string
	Exclude           []string
	SkipUncollectible bool
	Policy            Policy
	Extractor         *extract.Extractor
	Logger            *zap.Logger
}

// SourceRecord is the raw content of one card source file
type SourceRecord struct {
	Path string // Relative to the card directory
	Text string
}

// Skipped records a card source that failed to extract under SkipInvalid
type Skipped struct {
	Path string
	Err  error
}

// Result is the outcome of a load. Paths[i] is the source of Cards[i].
type Result struct {
	Cards   []card.Card
	Paths   []string
	Skipped []Skipped
}

// LoadCards loads all cards under root
func LoadCards(root string, opts Options) ([]card.Card, error) {
	res, err := Load(root, opts)
	if err != nil {
		return nil, err
	}
	return res.Cards, nil
}

// Load loads all cards under root and reports skipped sources
func Load(root string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = extract.New(nil, extract.BoundaryBlankLine)
	}

	records, err := Walk(root, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{Cards: []card.Card{}}
	for _, rec := range records {
		if opts.SkipUncollectible && isUncollectibleSource(rec.Text) {
			logger.Debug("Skipping uncollectible card", zap.String("path", rec.Path))
			continue
		}

		c, err := extractor.Extract(rec.Text)
		if err != nil {
			if opts.Policy == FailFast {
				return nil, fmt.Errorf("error extracting card %s: %w", rec.Path, err)
			}
			logger.Warn("Skipping invalid card", zap.String("path", rec.Path), zap.Error(err))
			res.Skipped = append(res.Skipped, Skipped{Path: rec.Path, Err: err})
			continue
		}

		res.Cards = append(res.Cards, c)
		res.Paths = append(res.Paths, rec.Path)
	}

	logger.Debug("Loaded cards",
		zap.String("root", root),
		zap.Int("cards", len(res.Cards)),
		zap.Int("skipped", len(res.Skipped)))

	return res, nil
}

// Walk reads every card source under root in lexicographic path order.
// Files without a card extension and excluded paths are skipped silently.
func Walk(root string, opts Options) ([]SourceRecord, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("card directory not found: %w", err)
	}

	gi, err := compileExcludes(root, opts.Exclude)
	if err != nil {
		return nil, err
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if gi.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !hasExtension(d.Name(), extensions) || gi.MatchesPath(rel) {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking card directory: %w", err)
	}

	sort.Strings(paths)

	records := make([]SourceRecord, 0, len(paths))
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("error reading card %s: %w", rel, err)
		}
		records = append(records, SourceRecord{Path: rel, Text: string(data)})
	}

	return records, nil
}

func compileExcludes(root string, extra []string) (*ignore.GitIgnore, error) {
	lines := append(append([]string{}, DefaultExclude...), extra...)

	ignorePath := filepath.Join(root, IgnoreFile)
	if _, err := os.Stat(ignorePath); err == nil {
		gi, err := ignore.CompileIgnoreFileAndLines(ignorePath, lines...)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", IgnoreFile, err)
		}
		return gi, nil
	}

	return ignore.CompileIgnoreLines(lines...)
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.Contains(name, ext) {
			return true
		}
	}
	return false
}

var uncollectibleSource = regexp.MustCompile(`uncollectible"?\s*:\s*true`)

// isUncollectibleSource reports whether raw card text is marked uncollectible.
// Starting heroes are uncollectible but define the classes, so they are kept.
func isUncollectibleSource(text string) bool {
	return uncollectibleSource.MatchString(text) && !strings.Contains(text, card.StartingHeroSuffix)
}
