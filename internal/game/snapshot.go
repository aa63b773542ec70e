package game

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
)

// HandSnapshot is a read-only copy of a hand for rendering. Face-down cards
// are left out of Cards and counted in Hidden; Score covers visible cards only.
type HandSnapshot struct {
	Cards   []deck.Card
	Hidden  int
	Score   evaluator.Score
	Natural bool
}

func newSnapshot(cards []deck.Card, hidden int) HandSnapshot {
	visible := make([]deck.Card, len(cards)-hidden)
	copy(visible, cards)
	snap := HandSnapshot{
		Cards:  visible,
		Hidden: hidden,
		Score:  evaluator.Evaluate(visible),
	}
	if hidden == 0 {
		snap.Natural = evaluator.IsNatural(visible)
	}
	return snap
}

// Bust returns true if the visible total exceeds 21
func (h HandSnapshot) Bust() bool {
	return h.Score.Bust()
}

// Len returns the number of cards in the hand, face-down cards included
func (h HandSnapshot) Len() int {
	return len(h.Cards) + h.Hidden
}
