package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/odds"
	"github.com/lox/blackjack/internal/randutil"
)

type OddsCmd struct {
	Player   string `arg:"" help:"Player cards, e.g. 'Th6c'"`
	DealerUp string `arg:"" help:"Dealer up card, e.g. '9s'"`
	Decks    int    `short:"d" help:"Decks in the shoe" default:"1" env:"BLACKJACK_DECKS"`
	Samples  int    `short:"i" help:"Number of Monte Carlo iterations" default:"100000"`
	Seed     *int64 `help:"Random seed for reproducible results"`
}

func (o *OddsCmd) Run() error {
	sit, err := buildSituation(o.Player, o.DealerUp, o.Decks)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := randutil.Seed(o.Seed)
	start := time.Now()
	est, err := odds.Run(ctx, sit, o.Samples, randutil.New(seed))
	if err != nil {
		return fmt.Errorf("failed to estimate odds: %w", err)
	}
	duration := time.Since(start)

	fmt.Println(titleStyle.Render(" ♠ ♥ Blackjack odds ♦ ♣ "))
	fmt.Println()
	fmt.Printf("%s %v (%s)\n", headerStyle.Render("Player:"), sit.Player, evaluator.Evaluate(sit.Player))
	fmt.Printf("%s %s\n", headerStyle.Render("Dealer shows:"), sit.DealerUp)
	fmt.Println()
	fmt.Printf("%-8s %s %s %s\n", "", winStyle.Render("   win"), pushStyle.Render("  push"), lossStyle.Render("  loss"))
	printOutcomes("Stand", est.Stand)
	printOutcomes("Hit", est.Hit)
	fmt.Println()
	fmt.Printf("%s %.1f%%\n", headerStyle.Render("Bust on hit:"), est.BustOnHit*100)
	fmt.Printf("%s %s\n", headerStyle.Render("Advice:"), valueStyle.Render(est.Advice()))
	fmt.Printf("\n%d samples in %v (seed %d)\n", est.Samples, duration.Round(time.Millisecond), seed)
	return nil
}

func printOutcomes(label string, o odds.Outcomes) {
	fmt.Printf("%-8s %s %s %s  EV %+.3f\n", label,
		winStyle.Render(fmt.Sprintf("%5.1f%%", o.Win*100)),
		pushStyle.Render(fmt.Sprintf("%5.1f%%", o.Push*100)),
		lossStyle.Render(fmt.Sprintf("%5.1f%%", o.Loss*100)),
		o.EV())
}

// buildSituation parses the spot and removes the visible cards from a fresh shoe
func buildSituation(player, dealerUp string, decks int) (odds.Situation, error) {
	hand, err := deck.ParseCards(player)
	if err != nil {
		return odds.Situation{}, fmt.Errorf("player cards: %w", err)
	}
	if len(hand) < 2 {
		return odds.Situation{}, fmt.Errorf("player must have at least 2 cards, got %d", len(hand))
	}
	if evaluator.IsBust(hand) {
		return odds.Situation{}, fmt.Errorf("player hand %v is already bust", hand)
	}

	up, err := deck.ParseCard(dealerUp)
	if err != nil {
		return odds.Situation{}, fmt.Errorf("dealer card: %w", err)
	}
	if decks < 1 {
		return odds.Situation{}, fmt.Errorf("decks must be at least 1, got %d", decks)
	}

	var shoe []deck.Card
	for range decks {
		shoe = append(shoe, deck.StandardDeck()...)
	}

	visible := append(append([]deck.Card{}, hand...), up)
	for _, c := range visible {
		idx := -1
		for i, s := range shoe {
			if s == c {
				idx = i
				break
			}
		}
		if idx < 0 {
			return odds.Situation{}, fmt.Errorf("card %s appears more often than the shoe holds", c)
		}
		shoe = append(shoe[:idx], shoe[idx+1:]...)
	}

	return odds.Situation{Player: hand, DealerUp: up, Unseen: shoe}, nil
}
