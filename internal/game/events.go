package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypePlayerAction EventType = "player_action"
	EventTypeDealerReveal EventType = "dealer_reveal"
	EventTypeRoundEnd     EventType = "round_end"
	EventTypeChipsAdded   EventType = "chips_added"
	EventTypeShoeShuffled EventType = "shoe_shuffled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Seat identifies who a card was dealt to
type Seat int

const (
	PlayerSeat Seat = iota
	DealerSeat
)

func (s Seat) String() string {
	if s == DealerSeat {
		return "Dealer"
	}
	return "Player"
}

// Action is a decision the player made during their turn
type Action int

const (
	ActionHit Action = iota
	ActionStand
	ActionDouble
)

func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	default:
		return "unknown"
	}
}

// GameEvent represents anything that happens at the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published when a bet is accepted
type RoundStartEvent struct {
	RoundID   string
	Bet       int
	Chips     int // balance after the bet
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(at time.Time, roundID string, bet, chips int) RoundStartEvent {
	return RoundStartEvent{RoundID: roundID, Bet: bet, Chips: chips, timestamp: at}
}

// CardDealtEvent is published for every card leaving the shoe
type CardDealtEvent struct {
	RoundID   string
	Seat      Seat
	Card      deck.Card
	FaceDown  bool
	Score     evaluator.Score // seat's visible score after the card
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(at time.Time, roundID string, seat Seat, card deck.Card, faceDown bool, score evaluator.Score) CardDealtEvent {
	return CardDealtEvent{
		RoundID:   roundID,
		Seat:      seat,
		Card:      card,
		FaceDown:  faceDown,
		Score:     score,
		timestamp: at,
	}
}

// PlayerActionEvent is published when the player hits, stands or doubles
type PlayerActionEvent struct {
	RoundID   string
	Action    Action
	Bet       int // bet after the action
	Score     evaluator.Score
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(at time.Time, roundID string, action Action, bet int, score evaluator.Score) PlayerActionEvent {
	return PlayerActionEvent{RoundID: roundID, Action: action, Bet: bet, Score: score, timestamp: at}
}

// DealerRevealEvent is published when the dealer turns the hole card over
type DealerRevealEvent struct {
	RoundID   string
	HoleCard  deck.Card
	Cards     []deck.Card
	Score     evaluator.Score
	timestamp time.Time
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }
func (e DealerRevealEvent) Timestamp() time.Time { return e.timestamp }

// NewDealerRevealEvent creates a new dealer reveal event
func NewDealerRevealEvent(at time.Time, roundID string, cards []deck.Card) DealerRevealEvent {
	c := make([]deck.Card, len(cards))
	copy(c, cards)
	e := DealerRevealEvent{
		RoundID:   roundID,
		Cards:     c,
		Score:     evaluator.Evaluate(c),
		timestamp: at,
	}
	if len(c) > 1 {
		e.HoleCard = c[1]
	}
	return e
}

// RoundEndEvent is published when a round is settled or abandoned.
// Settlement is nil for an abandoned round.
type RoundEndEvent struct {
	RoundID     string
	Settlement  *Settlement
	Bet         int
	Actions     []Action
	PlayerCards []deck.Card
	DealerCards []deck.Card
	Doubled     bool
	Chips       int
	Duration    time.Duration
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// Abandoned returns true if the round ended without being settled
func (e RoundEndEvent) Abandoned() bool { return e.Settlement == nil }

// NewRoundEndEvent creates a new round end event
func NewRoundEndEvent(at time.Time, r *RoundState, chips int) RoundEndEvent {
	e := RoundEndEvent{
		RoundID:     r.ID,
		Bet:         r.Bet,
		Actions:     append([]Action(nil), r.Actions...),
		PlayerCards: append([]deck.Card(nil), r.Player...),
		DealerCards: append([]deck.Card(nil), r.Dealer...),
		Doubled:     r.Doubled,
		Chips:       chips,
		Duration:    at.Sub(r.StartedAt),
		timestamp:   at,
	}
	if r.settled {
		result := r.result
		e.Settlement = &result
	}
	return e
}

// ChipsAddedEvent is published when the player buys chips
type ChipsAddedEvent struct {
	Amount    int
	Chips     int
	Bought    int
	timestamp time.Time
}

func (e ChipsAddedEvent) EventType() EventType { return EventTypeChipsAdded }
func (e ChipsAddedEvent) Timestamp() time.Time { return e.timestamp }

// NewChipsAddedEvent creates a new chips added event
func NewChipsAddedEvent(at time.Time, amount, chips, bought int) ChipsAddedEvent {
	return ChipsAddedEvent{Amount: amount, Chips: chips, Bought: bought, timestamp: at}
}

// ShoeShuffledEvent is published when the shoe runs out and is rebuilt
type ShoeShuffledEvent struct {
	Decks     int
	Cards     int
	timestamp time.Time
}

func (e ShoeShuffledEvent) EventType() EventType { return EventTypeShoeShuffled }
func (e ShoeShuffledEvent) Timestamp() time.Time { return e.timestamp }

// NewShoeShuffledEvent creates a new shoe shuffled event
func NewShoeShuffledEvent(at time.Time, decks, cards int) ShoeShuffledEvent {
	return ShoeShuffledEvent{Decks: decks, Cards: cards, timestamp: at}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Function subscribers cannot be compared
// and must not be unsubscribed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers an event to every subscriber in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
