package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowHoleCard   bool // print the face-down card when it is dealt (debug views)
	ShowTimestamps bool
}

// EventFormatter provides centralized formatting for game events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders an event as a log line. Unknown events render as "".
func (ef *EventFormatter) Format(event GameEvent) string {
	var line string
	switch e := event.(type) {
	case RoundStartEvent:
		line = ef.FormatRoundStart(e)
	case CardDealtEvent:
		line = ef.FormatCardDealt(e)
	case PlayerActionEvent:
		line = ef.FormatPlayerAction(e)
	case DealerRevealEvent:
		line = ef.FormatDealerReveal(e)
	case RoundEndEvent:
		line = ef.FormatRoundEnd(e)
	case ChipsAddedEvent:
		line = fmt.Sprintf("Bought $%d in chips (balance $%d)", e.Amount, e.Chips)
	case ShoeShuffledEvent:
		line = fmt.Sprintf("*** SHUFFLE *** %d deck(s) back in the shoe", e.Decks)
	default:
		return ""
	}
	if ef.opts.ShowTimestamps {
		line = event.Timestamp().Format("15:04:05") + " " + line
	}
	return line
}

// FormatRoundStart formats a round start event
func (ef *EventFormatter) FormatRoundStart(e RoundStartEvent) string {
	return fmt.Sprintf("*** ROUND %s *** bet $%d, balance $%d", shortID(e.RoundID), e.Bet, e.Chips)
}

// FormatCardDealt formats a card dealt event
func (ef *EventFormatter) FormatCardDealt(e CardDealtEvent) string {
	if e.FaceDown && !ef.opts.ShowHoleCard {
		return fmt.Sprintf("%s: dealt a card face down", e.Seat)
	}
	return fmt.Sprintf("%s: dealt %s (%s)", e.Seat, e.Card, e.Score)
}

// FormatPlayerAction formats a player action event
func (ef *EventFormatter) FormatPlayerAction(e PlayerActionEvent) string {
	switch e.Action {
	case ActionHit:
		return fmt.Sprintf("Player: hits (%s)", e.Score)
	case ActionStand:
		return fmt.Sprintf("Player: stands on %s", e.Score)
	case ActionDouble:
		return fmt.Sprintf("Player: doubles to $%d (%s)", e.Bet, e.Score)
	default:
		return fmt.Sprintf("Player: %s", e.Action)
	}
}

// FormatDealerReveal formats a dealer reveal event
func (ef *EventFormatter) FormatDealerReveal(e DealerRevealEvent) string {
	return fmt.Sprintf("Dealer: reveals %s [%s] (%s)", e.HoleCard, formatCards(e.Cards), e.Score)
}

// FormatRoundEnd formats a round end event
func (ef *EventFormatter) FormatRoundEnd(e RoundEndEvent) string {
	var sb strings.Builder
	if e.Abandoned() {
		fmt.Fprintf(&sb, "Round abandoned, $%d bet forfeited.", e.Bet)
	} else {
		sb.WriteString(e.Settlement.Message())
	}
	fmt.Fprintf(&sb, " Balance $%d.", e.Chips)
	return sb.String()
}
