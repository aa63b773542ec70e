package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// recordingBus is an EventBus that also keeps every published event
type recordingBus struct {
	EventBus
	events []GameEvent
}

func newRecordingBus() *recordingBus {
	b := &recordingBus{EventBus: NewEventBus()}
	b.Subscribe(EventSubscriberFunc(func(e GameEvent) { b.events = append(b.events, e) }))
	return b
}

func (b *recordingBus) types() []EventType {
	out := make([]EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventType()
	}
	return out
}

// newTestSession creates a session whose shoe deals cards in the given order:
// player, dealer, player, dealer hole card, then any further draws.
func newTestSession(t *testing.T, cards string, opts ...SessionOption) (*Session, *recordingBus, *quartz.Mock) {
	t.Helper()

	rng := randutil.New(42)
	clock := quartz.NewMock(t)
	bus := newRecordingBus()

	base := []SessionOption{
		WithShoe(deck.NewStackedShoe(rng, deck.MustParseCards(cards)...)),
		WithClock(clock),
		WithEventBus(bus),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})),
	}
	return NewSession(rng, append(base, opts...)...), bus, clock
}
