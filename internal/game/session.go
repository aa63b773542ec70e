package game

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
)

// Session is one player's seat at the table for the life of the process. It
// owns the shoe, the account and the current round; nothing else writes to
// them. A Session is not safe for concurrent use: the renderer's update loop
// is expected to be its only caller.
type Session struct {
	shoe           *deck.Shoe
	account        *Account
	round          RoundState
	topUpThreshold int

	eventBus EventBus
	history  *RoundHistory
	logger   *log.Logger
	clock    quartz.Clock
}

// NewSession creates a session waiting for the first bet. The RNG is required
// to make shuffling explicit and testing deterministic; it is unused when a
// shoe is supplied via WithShoe.
func NewSession(rng *rand.Rand, opts ...SessionOption) *Session {
	if rng == nil {
		panic("rng is required for session creation")
	}

	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	shoe := cfg.shoe
	if shoe == nil {
		shoe = deck.NewShoe(cfg.decks, rng)
	}
	bus := cfg.eventBus
	if bus == nil {
		bus = NewEventBus()
	}

	s := &Session{
		shoe:           shoe,
		account:        NewAccount(cfg.startingChips),
		round:          RoundState{Phase: Betting},
		topUpThreshold: cfg.topUpThreshold,
		eventBus:       bus,
		history:        NewRoundHistory(cfg.historyLimit),
		logger:         cfg.logger.WithPrefix("session"),
		clock:          cfg.clock,
	}
	bus.Subscribe(s.history)

	s.logger.Info("Session created",
		"decks", shoe.Decks(),
		"chips", cfg.startingChips,
		"topUpThreshold", cfg.topUpThreshold)
	return s
}

// EventBus returns the bus the session publishes on
func (s *Session) EventBus() EventBus { return s.eventBus }

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.round.Phase }

// RoundID returns the current round ID, empty while betting
func (s *Session) RoundID() string { return s.round.ID }

// CurrentBet returns the chips at stake this round, doubled bets included
func (s *Session) CurrentBet() int { return s.round.Bet }

// Doubled reports whether the player doubled this round
func (s *Session) Doubled() bool { return s.round.Doubled }

// CanAct reports whether it is still the player's turn
func (s *Session) CanAct() bool { return s.round.CanAct }

// Chips returns the spendable balance
func (s *Session) Chips() int { return s.account.Chips() }

// Bought returns the lifetime amount of purchased chips
func (s *Session) Bought() int { return s.account.Bought() }

// Records returns the win/loss/draw tally
func (s *Session) Records() Records { return s.account.Records() }

// WinProbability returns wins / settled rounds, 0 when none have settled
func (s *Session) WinProbability() float64 { return s.account.Records().WinProbability() }

// NetEarnings returns the balance minus the starting stake and purchases
func (s *Session) NetEarnings() int { return s.account.NetEarnings() }

// TopUpThreshold returns the balance below which chips can be bought
func (s *Session) TopUpThreshold() int { return s.topUpThreshold }

// PlayerHand returns the player's cards
func (s *Session) PlayerHand() HandSnapshot {
	return newSnapshot(s.round.Player, 0)
}

// DealerHand returns the dealer's cards with the hole card hidden until the
// dealer's turn
func (s *Session) DealerHand() HandSnapshot {
	hidden := 0
	if s.round.Phase.HoleCardHidden() && len(s.round.Dealer) > 1 {
		hidden = 1
	}
	return newSnapshot(s.round.Dealer, hidden)
}

// LastSettlement returns the result of the current round once it is over
func (s *Session) LastSettlement() (Settlement, bool) {
	if !s.round.settled {
		return Settlement{}, false
	}
	return s.round.result, true
}

// Message returns the round result text, empty until the round is over
func (s *Session) Message() string {
	if r, ok := s.LastSettlement(); ok {
		return r.Message()
	}
	return ""
}

// CanDouble reports whether Double would be accepted right now
func (s *Session) CanDouble() bool {
	return s.round.Phase == PlayerActing &&
		s.round.CanAct &&
		len(s.round.Player) == 2 &&
		!evaluator.IsNatural(s.round.Player) &&
		s.account.Chips() >= s.round.Bet
}

// CanTopUp reports whether AddChips would be accepted right now
func (s *Session) CanTopUp() bool {
	return (s.round.Phase == Betting || s.round.Phase == RoundOver) &&
		s.account.Chips() < s.topUpThreshold
}

// Unseen returns every card the player cannot see: the shoe plus the dealer's
// hole card while it is face down. Used by the odds advisor.
func (s *Session) Unseen() []deck.Card {
	unseen := s.shoe.Unseen()
	if s.round.Phase.HoleCardHidden() && len(s.round.Dealer) > 1 {
		unseen = append(unseen, s.round.Dealer[1])
	}
	return unseen
}

// ShoeRemaining returns the cards left before the shoe is rebuilt
func (s *Session) ShoeRemaining() int { return s.shoe.Remaining() }

// History returns the settled and abandoned rounds, oldest first
func (s *Session) History() []RoundRecord { return s.history.Rounds() }
