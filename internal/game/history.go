package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
)

// RoundRecord is a finished round as kept in the session history
type RoundRecord struct {
	RoundID     string
	Bet         int
	Doubled     bool
	Actions     []Action
	PlayerCards []deck.Card
	DealerCards []deck.Card
	Settlement  *Settlement // nil when abandoned
	Chips       int         // balance after the round
	EndedAt     time.Time
	Duration    time.Duration
}

// Abandoned returns true if the round was cleared before it settled
func (r RoundRecord) Abandoned() bool { return r.Settlement == nil }

// Summary renders the round as a short multi-line block
func (r RoundRecord) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*** ROUND %s ***\n", shortID(r.RoundID))
	fmt.Fprintf(&sb, "Bet: $%d", r.Bet)
	if r.Doubled {
		sb.WriteString(" (doubled)")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Player: [%s] %s\n", formatCards(r.PlayerCards), evaluator.Evaluate(r.PlayerCards))
	fmt.Fprintf(&sb, "Dealer: [%s] %s\n", formatCards(r.DealerCards), evaluator.Evaluate(r.DealerCards))
	if r.Abandoned() {
		sb.WriteString("Abandoned, bet forfeited\n")
	} else {
		fmt.Fprintf(&sb, "%s\n", r.Settlement.Message())
	}
	fmt.Fprintf(&sb, "Chips: $%d\n", r.Chips)
	return sb.String()
}

// RoundHistory keeps the most recent rounds in memory. It is fed by the
// session's event bus.
type RoundHistory struct {
	limit  int
	rounds []RoundRecord
}

// NewRoundHistory creates a history holding at most limit rounds; limit <= 0
// keeps everything.
func NewRoundHistory(limit int) *RoundHistory {
	return &RoundHistory{limit: limit}
}

// OnEvent implements EventSubscriber
func (h *RoundHistory) OnEvent(event GameEvent) {
	e, ok := event.(RoundEndEvent)
	if !ok {
		return
	}
	h.rounds = append(h.rounds, RoundRecord{
		RoundID:     e.RoundID,
		Bet:         e.Bet,
		Doubled:     e.Doubled,
		Actions:     e.Actions,
		PlayerCards: e.PlayerCards,
		DealerCards: e.DealerCards,
		Settlement:  e.Settlement,
		Chips:       e.Chips,
		EndedAt:     e.Timestamp(),
		Duration:    e.Duration,
	})
	if h.limit > 0 && len(h.rounds) > h.limit {
		h.rounds = h.rounds[len(h.rounds)-h.limit:]
	}
}

// Rounds returns a copy of the recorded rounds, oldest first
func (h *RoundHistory) Rounds() []RoundRecord {
	out := make([]RoundRecord, len(h.rounds))
	copy(out, h.rounds)
	return out
}

// Last returns the most recent round
func (h *RoundHistory) Last() (RoundRecord, bool) {
	if len(h.rounds) == 0 {
		return RoundRecord{}, false
	}
	return h.rounds[len(h.rounds)-1], true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
