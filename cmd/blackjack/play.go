package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Config      string `short:"c" help:"HCL config file" default:"${config_file}" env:"BLACKJACK_CONFIG"`
	Decks       *int   `help:"Decks in the shoe" env:"BLACKJACK_DECKS"`
	Chips       *int   `help:"Starting chips" env:"BLACKJACK_CHIPS"`
	Seed        *int64 `help:"Random seed for a reproducible shoe" env:"BLACKJACK_SEED"`
	LogFile     string `help:"Log file (the terminal belongs to the UI)" env:"BLACKJACK_LOG_FILE"`
	LogLevel    string `help:"Log level: debug, info, warn, error" env:"BLACKJACK_LOG_LEVEL"`
	NoColor     *bool  `help:"Disable colors (--no-color=false re-enables them)" env:"BLACKJACK_NO_COLOR"`
	OddsSamples *int   `help:"Monte Carlo samples for the odds advisor" env:"BLACKJACK_ODDS_SAMPLES"`
	ShowOdds    *bool  `help:"Run the odds advisor at every decision (--show-odds=false turns it off)" env:"BLACKJACK_SHOW_ODDS"`
}

// load reads the config file and applies flag and environment overrides
func (p *PlayCmd) load() (*config.Config, error) {
	cfg, err := config.Load(p.Config)
	if err != nil {
		return nil, err
	}

	if p.Decks != nil {
		cfg.Table.Decks = *p.Decks
	}
	if p.Chips != nil {
		cfg.Table.StartingChips = *p.Chips
	}
	if p.LogFile != "" {
		cfg.UI.LogFile = p.LogFile
	}
	if p.LogLevel != "" {
		cfg.UI.LogLevel = p.LogLevel
	}
	if p.NoColor != nil {
		cfg.UI.NoColor = *p.NoColor
	}
	if p.OddsSamples != nil {
		cfg.UI.OddsSamples = *p.OddsSamples
	}
	if p.ShowOdds != nil {
		cfg.UI.ShowOdds = *p.ShowOdds
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (p *PlayCmd) Run() error {
	cfg, err := p.load()
	if err != nil {
		return err
	}
	if cfg.UI.NoColor {
		tui.DisableColor()
	}

	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
		Level:           cfg.Level(),
	})

	seed := randutil.Seed(p.Seed)
	logger.Info("Starting session", "seed", seed, "decks", cfg.Table.Decks, "chips", cfg.Table.StartingChips)
	rng := randutil.New(seed)

	session := game.NewSession(rng,
		game.WithDecks(cfg.Table.Decks),
		game.WithStartingChips(cfg.Table.StartingChips),
		game.WithTopUpThreshold(cfg.Table.TopUpThreshold),
		game.WithHistoryLimit(cfg.Table.HistoryLimit),
		game.WithLogger(logger),
	)
	collector := statistics.NewCollector()
	session.EventBus().Subscribe(collector)

	model := tui.NewTUIModel(session, rng, logger, tui.Options{
		DefaultBet:   cfg.Table.DefaultBet,
		TopUpAmount:  cfg.Table.TopUpAmount,
		OddsSamples:  cfg.UI.OddsSamples,
		ShowOdds:     cfg.UI.ShowOdds,
		ShowHoleCard: cfg.UI.ShowHoleCard,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	stats := collector.Stats()
	if err := stats.Validate(); err != nil && stats.Rounds > 0 {
		logger.Error("Statistics failed validation", "error", err)
	}
	logger.Info("Session finished",
		"rounds", stats.Rounds,
		"chips", session.Chips(),
		"net", session.NetEarnings())

	printSummary(session, stats, seed)
	return nil
}

func printSummary(session *game.Session, stats statistics.Statistics, seed int64) {
	fmt.Println(titleStyle.Render(" ♠ ♥ Session summary ♦ ♣ "))
	fmt.Println()
	fmt.Print(stats.Summary())
	fmt.Println()

	net := session.NetEarnings()
	netStyle := pushStyle
	switch {
	case net > 0:
		netStyle = winStyle
	case net < 0:
		netStyle = lossStyle
	}
	fmt.Printf("%s %s\n", headerStyle.Render("Final chips:"), valueStyle.Render(fmt.Sprintf("$%d", session.Chips())))
	fmt.Printf("%s %s\n", headerStyle.Render("Net earnings:"), netStyle.Render(fmt.Sprintf("%+d", net)))
	fmt.Printf("%s %d (replay with --seed %d)\n", headerStyle.Render("Seed:"), seed, seed)
}
