// Package evaluator scores blackjack hands.
package evaluator

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Blackjack is the best possible hand total
const Blackjack = 21

// Score is the evaluated total of a hand
type Score struct {
	Total int
	Soft  bool // at least one ace is still counted as 11
}

// Bust returns true if the total exceeds 21
func (s Score) Bust() bool {
	return s.Total > Blackjack
}

// String renders the score as shown to players, e.g. "soft 17" or "bust (24)"
func (s Score) String() string {
	switch {
	case s.Bust():
		return fmt.Sprintf("bust (%d)", s.Total)
	case s.Soft && s.Total < Blackjack:
		return fmt.Sprintf("soft %d", s.Total)
	default:
		return fmt.Sprintf("%d", s.Total)
	}
}

// Evaluate computes the best total for a hand. Every ace starts at 11 and is
// demoted to 1, one at a time, while the total is over 21.
func Evaluate(cards []deck.Card) Score {
	total, elevenAces := 0, 0
	for _, c := range cards {
		total += c.Value()
		if c.IsAce() {
			elevenAces++
		}
	}
	for total > Blackjack && elevenAces > 0 {
		total -= 10
		elevenAces--
	}
	return Score{Total: total, Soft: elevenAces > 0}
}

// IsNatural reports whether the hand is a two-card blackjack: an ace and a
// ten-value card.
func IsNatural(cards []deck.Card) bool {
	if len(cards) != 2 {
		return false
	}
	a, b := cards[0], cards[1]
	return (a.IsAce() && b.IsTenValue()) || (b.IsAce() && a.IsTenValue())
}

// IsBust reports whether the hand total exceeds 21 with every ace counted as 1
func IsBust(cards []deck.Card) bool {
	return Evaluate(cards).Bust()
}
