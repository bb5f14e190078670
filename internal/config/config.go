package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arcanaland/deckcrafter/internal/deck"
	"github.com/arcanaland/deckcrafter/internal/extract"
	"github.com/arcanaland/deckcrafter/internal/repository"
)

// Environment variables overriding the config file
const (
	EnvCardsDir   = "DECKCRAFTER_CARDS_DIR"
	EnvMaxRetries = "DECKCRAFTER_MAX_RETRIES"
)

// Config represents the application configuration
type Config struct {
	CardsDir          string     `toml:"cards_dir"`
	Extensions        []string   `toml:"extensions"`
	Exclude           []string   `toml:"exclude"`
	Markers           []string   `toml:"markers"`
	Boundary          string     `toml:"boundary"`
	LoadPolicy        string     `toml:"load_policy"`
	SkipUncollectible bool       `toml:"skip_uncollectible"`
	MaxRetries        int        `toml:"max_retries"`
	Deck              DeckConfig `toml:"deck"`
}

// DeckConfig holds the deck size and copy limits checked on export
type DeckConfig struct {
	MinLength          int `toml:"min_length"`
	MaxLength          int `toml:"max_length"`
	MaxCopies          int `toml:"max_copies"`
	MaxLegendaryCopies int `toml:"max_legendary_copies"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		CardsDir:          "cards",
		Extensions:        append([]string(nil), repository.DefaultExtensions...),
		Exclude:           append([]string(nil), repository.DefaultExclude...),
		Markers:           []string{extract.DefaultMarker},
		Boundary:          extract.BoundaryBlankLine.String(),
		LoadPolicy:        repository.FailFast.String(),
		SkipUncollectible: false,
		MaxRetries:        5,
		Deck: DeckConfig{
			MinLength:          deck.DefaultLimits.MinLength,
			MaxLength:          deck.DefaultLimits.MaxLength,
			MaxCopies:          deck.DefaultLimits.MaxCopies,
			MaxLegendaryCopies: deck.DefaultLimits.MaxLegendaryCopies,
		},
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetCardLibraryPath returns the path to the shared card library
func GetCardLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), "deckcrafter", "cards")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "deckcrafter", "config.toml")
}

// LoadDotEnv loads a .env file from the working directory, if there is one
func LoadDotEnv() {
	_ = godotenv.Load()
}

// LoadConfig loads the config file, creating it with defaults if it doesn't
// exist, and applies the environment overrides
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	var config *Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		created, err := createDefaultConfig()
		if err != nil {
			return nil, err
		}
		config = created
	} else {
		config = Default()
		if _, err := toml.DecodeFile(configPath, config); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if dir := os.Getenv(EnvCardsDir); dir != "" {
		c.CardsDir = dir
	}
	if retries := os.Getenv(EnvMaxRetries); retries != "" {
		n, err := strconv.Atoi(retries)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s: %s", EnvMaxRetries, retries)
		}
		c.MaxRetries = n
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := SaveConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes config to the config file
func SaveConfig(config *Config) error {
	configPath := GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}

// SetCardsDir points the config file at a card directory
func SetCardsDir(dir string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	config.CardsDir = dir
	return SaveConfig(config)
}

// GetCardsPath resolves a card directory, either a path or a name in the card library
func GetCardsPath(dir string) (string, error) {
	if _, err := os.Stat(dir); err == nil {
		return dir, nil
	}

	libraryPath := filepath.Join(GetCardLibraryPath(), dir)
	if _, err := os.Stat(libraryPath); err == nil {
		return libraryPath, nil
	}

	return "", fmt.Errorf("card directory not found: %s", dir)
}

// RepositoryOptions converts the config to repository load options
func (c *Config) RepositoryOptions(logger *zap.Logger) (repository.Options, error) {
	boundary, err := extract.ParseBoundary(c.Boundary)
	if err != nil {
		return repository.Options{}, err
	}
	policy, err := repository.ParsePolicy(c.LoadPolicy)
	if err != nil {
		return repository.Options{}, err
	}

	return repository.Options{
		Extensions:        c.Extensions,
		Exclude:           c.Exclude,
		SkipUncollectible: c.SkipUncollectible,
		Policy:            policy,
		Extractor:         extract.New(c.Markers, boundary),
		Logger:            logger,
	}, nil
}

// Limits returns the deck limits
func (c *Config) Limits() deck.Limits {
	return deck.Limits{
		MinLength:          c.Deck.MinLength,
		MaxLength:          c.Deck.MaxLength,
		MaxCopies:          c.Deck.MaxCopies,
		MaxLegendaryCopies: c.Deck.MaxLegendaryCopies,
	}
}
