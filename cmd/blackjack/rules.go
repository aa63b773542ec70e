package main

import (
	"fmt"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
)

type RulesCmd struct {
	Config string `short:"c" help:"HCL config file" default:"${config_file}" env:"BLACKJACK_CONFIG"`
	Decks  *int   `help:"Decks in the shoe" env:"BLACKJACK_DECKS"`
	Chips  *int   `help:"Starting chips" env:"BLACKJACK_CHIPS"`
}

func (r *RulesCmd) Run() error {
	cfg, err := config.Load(r.Config)
	if err != nil {
		return err
	}
	if r.Decks != nil {
		cfg.Table.Decks = *r.Decks
	}
	if r.Chips != nil {
		cfg.Table.StartingChips = *r.Chips
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Println(titleStyle.Render(" ♠ ♥ House rules ♦ ♣ "))
	fmt.Println()
	for _, line := range houseRules(cfg) {
		fmt.Println(line)
	}
	return nil
}

func houseRules(cfg *config.Config) []string {
	t := cfg.Table
	return []string{
		fmt.Sprintf("%s %s", headerStyle.Render("Shoe:"), valueStyle.Render(fmt.Sprintf("%d deck(s), reshuffled only when empty", t.Decks))),
		fmt.Sprintf("%s %s", headerStyle.Render("Dealer:"), valueStyle.Render(fmt.Sprintf("draws to %d, stands on all %ds, no peek", game.DealerStandsOn, game.DealerStandsOn))),
		fmt.Sprintf("%s %s", headerStyle.Render("Blackjack:"), valueStyle.Render("pays 3:2, rounded down; must stand; pushes against a dealer blackjack")),
		fmt.Sprintf("%s %s", headerStyle.Render("Double:"), valueStyle.Render("first two cards only, one card, then the dealer plays")),
		fmt.Sprintf("%s %s", headerStyle.Render("Busts:"), valueStyle.Render("a player bust loses even if the dealer also busts")),
		fmt.Sprintf("%s %s", headerStyle.Render("Not offered:"), valueStyle.Render("split, insurance, surrender")),
		fmt.Sprintf("%s %s", headerStyle.Render("Bankroll:"), valueStyle.Render(fmt.Sprintf("$%d to start, default bet $%d", t.StartingChips, t.DefaultBet))),
		fmt.Sprintf("%s %s", headerStyle.Render("Top-up:"), valueStyle.Render(fmt.Sprintf("$%d between rounds while below $%d", t.TopUpAmount, t.TopUpThreshold))),
	}
}
