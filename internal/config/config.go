// Package config loads table and UI settings from an HCL file.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/odds"
)

// DefaultFilename is read from the working directory when --config is not set
const DefaultFilename = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	Table TableSettings `hcl:"table,block"`
	UI    UISettings    `hcl:"ui,block"`
}

// fileConfig mirrors Config with both blocks optional
type fileConfig struct {
	Table *TableSettings `hcl:"table,block"`
	UI    *UISettings    `hcl:"ui,block"`
}

// TableSettings contains the house rules and bankroll settings
type TableSettings struct {
	Decks          int `hcl:"decks,optional"`
	StartingChips  int `hcl:"starting_chips,optional"`
	TopUpThreshold int `hcl:"top_up_threshold,optional"`
	TopUpAmount    int `hcl:"top_up_amount,optional"`
	DefaultBet     int `hcl:"default_bet,optional"`
	HistoryLimit   int `hcl:"history_limit,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel     string `hcl:"log_level,optional"`
	LogFile      string `hcl:"log_file,optional"`
	OddsSamples  int    `hcl:"odds_samples,optional"`
	ShowOdds     bool   `hcl:"show_odds,optional"`
	NoColor      bool   `hcl:"no_color,optional"`
	ShowHoleCard bool   `hcl:"show_hole_card,optional"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Table: TableSettings{
			Decks:          deck.DefaultDecks,
			StartingChips:  game.DefaultStartingChips,
			TopUpThreshold: game.DefaultTopUpThreshold,
			TopUpAmount:    game.DefaultStartingChips,
			DefaultBet:     game.DefaultBet,
			HistoryLimit:   game.DefaultHistoryLimit,
		},
		UI: UISettings{
			LogLevel:    "info",
			LogFile:     "blackjack.log",
			OddsSamples: odds.DefaultSamples,
		},
	}
}

// Load loads configuration from an HCL file. A missing file is not an error:
// the defaults are returned instead.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	var config Config
	if raw.Table != nil {
		config.Table = *raw.Table
	}
	if raw.UI != nil {
		config.UI = *raw.UI
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Table.Decks == 0 {
		c.Table.Decks = def.Table.Decks
	}
	if c.Table.StartingChips == 0 {
		c.Table.StartingChips = def.Table.StartingChips
	}
	if c.Table.TopUpThreshold == 0 {
		c.Table.TopUpThreshold = def.Table.TopUpThreshold
	}
	if c.Table.TopUpAmount == 0 {
		c.Table.TopUpAmount = def.Table.TopUpAmount
	}
	if c.Table.DefaultBet == 0 {
		c.Table.DefaultBet = def.Table.DefaultBet
	}
	if c.Table.HistoryLimit == 0 {
		c.Table.HistoryLimit = def.Table.HistoryLimit
	}

	if c.UI.LogLevel == "" {
		c.UI.LogLevel = def.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = def.UI.LogFile
	}
	if c.UI.OddsSamples == 0 {
		c.UI.OddsSamples = def.UI.OddsSamples
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	t := c.Table
	if t.Decks < 1 || t.Decks > 8 {
		return fmt.Errorf("decks must be between 1 and 8, got %d", t.Decks)
	}
	if t.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive, got %d", t.StartingChips)
	}
	if t.TopUpThreshold < 0 {
		return fmt.Errorf("top-up threshold cannot be negative, got %d", t.TopUpThreshold)
	}
	if t.TopUpAmount <= 0 {
		return fmt.Errorf("top-up amount must be positive, got %d", t.TopUpAmount)
	}
	if t.DefaultBet <= 0 {
		return fmt.Errorf("default bet must be positive, got %d", t.DefaultBet)
	}
	if t.HistoryLimit < 0 {
		return fmt.Errorf("history limit cannot be negative, got %d", t.HistoryLimit)
	}

	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.UI.LogLevel, err)
	}
	if c.UI.OddsSamples <= 0 {
		return fmt.Errorf("odds samples must be positive, got %d", c.UI.OddsSamples)
	}
	return nil
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
