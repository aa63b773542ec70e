package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
)

// Defaults for a new session
const (
	DefaultStartingChips  = 500
	DefaultTopUpThreshold = 500
	DefaultHistoryLimit   = 100
	DefaultBet            = 10
)

// SessionOption configures a Session during creation.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	decks          int
	shoe           *deck.Shoe
	startingChips  int
	topUpThreshold int
	historyLimit   int
	logger         *log.Logger
	clock          quartz.Clock
	eventBus       EventBus
}

func defaultSessionConfig() *sessionConfig {
	return &sessionConfig{
		decks:          deck.DefaultDecks,
		startingChips:  DefaultStartingChips,
		topUpThreshold: DefaultTopUpThreshold,
		historyLimit:   DefaultHistoryLimit,
		logger:         log.NewWithOptions(io.Discard, log.Options{}),
		clock:          quartz.NewReal(),
	}
}

// WithDecks sets how many 52-card decks make up the shoe.
func WithDecks(n int) SessionOption {
	return func(c *sessionConfig) { c.decks = n }
}

// WithShoe uses a specific shoe, e.g. a stacked one for tests.
// This overrides WithDecks.
func WithShoe(shoe *deck.Shoe) SessionOption {
	return func(c *sessionConfig) { c.shoe = shoe }
}

// WithStartingChips sets the opening balance.
func WithStartingChips(chips int) SessionOption {
	return func(c *sessionConfig) { c.startingChips = chips }
}

// WithTopUpThreshold sets the balance below which chips may be bought.
func WithTopUpThreshold(threshold int) SessionOption {
	return func(c *sessionConfig) { c.topUpThreshold = threshold }
}

// WithHistoryLimit caps the number of rounds kept in the session history.
func WithHistoryLimit(n int) SessionOption {
	return func(c *sessionConfig) { c.historyLimit = n }
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) SessionOption {
	return func(c *sessionConfig) { c.logger = logger }
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) SessionOption {
	return func(c *sessionConfig) { c.clock = clock }
}

// WithEventBus publishes events on an existing bus.
func WithEventBus(bus EventBus) SessionOption {
	return func(c *sessionConfig) { c.eventBus = bus }
}
