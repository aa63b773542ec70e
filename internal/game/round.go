package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
)

// DealerStandsOn is the total at which the dealer stops drawing. Soft and
// hard totals are treated alike.
const DealerStandsOn = 17

// RoundState is everything scoped to a single round. It is replaced with a
// fresh value when a new round starts.
type RoundState struct {
	ID        string
	Phase     Phase
	Bet       int
	Doubled   bool
	Player    []deck.Card
	Dealer    []deck.Card
	CanAct    bool
	Actions   []Action
	StartedAt time.Time

	settled bool
	result  Settlement
}

// PlaceBet stakes amount chips and deals the opening cards
func (s *Session) PlaceBet(amount int) error {
	if s.round.Phase != Betting {
		return fmt.Errorf("cannot bet during %s: %w", s.round.Phase, ErrIllegalAction)
	}
	if amount <= 0 {
		return fmt.Errorf("bet must be positive, got %d: %w", amount, ErrInvalidBet)
	}
	if amount > s.account.Chips() {
		return fmt.Errorf("bet %d exceeds balance %d: %w", amount, s.account.Chips(), ErrInvalidBet)
	}
	if err := s.account.Bet(amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBet, err)
	}

	s.round.ID = uuid.NewString()
	s.round.Bet = amount
	s.round.StartedAt = s.clock.Now()
	s.round.Phase = Dealing

	s.logger.Info("Bet placed", "round", s.round.ID, "bet", amount, "chips", s.account.Chips())
	s.eventBus.Publish(NewRoundStartEvent(s.clock.Now(), s.round.ID, amount, s.account.Chips()))

	s.deal()
	return nil
}

// Hit draws a card for the player. A bust ends the player's turn.
func (s *Session) Hit() (HandSnapshot, error) {
	if err := s.requireDraw("hit"); err != nil {
		return HandSnapshot{}, err
	}

	s.dealTo(PlayerSeat, false)
	score := evaluator.Evaluate(s.round.Player)
	s.recordAction(ActionHit, score)

	if score.Bust() {
		s.logger.Debug("Player busts", "round", s.round.ID, "total", score.Total)
		s.finishPlayerTurn()
	}
	return s.PlayerHand(), nil
}

// Stand ends the player's turn
func (s *Session) Stand() error {
	if err := s.requireTurn("stand"); err != nil {
		return err
	}
	s.recordAction(ActionStand, evaluator.Evaluate(s.round.Player))
	s.finishPlayerTurn()
	return nil
}

// Double matches the bet, draws exactly one card and ends the player's turn.
// It is only allowed on the first two cards.
func (s *Session) Double() (HandSnapshot, error) {
	if err := s.requireDraw("double"); err != nil {
		return HandSnapshot{}, err
	}
	if len(s.round.Player) != 2 {
		return HandSnapshot{}, fmt.Errorf("double needs exactly 2 cards, have %d: %w", len(s.round.Player), ErrIllegalAction)
	}
	if err := s.account.Bet(s.round.Bet); err != nil {
		return HandSnapshot{}, fmt.Errorf("double %d with balance %d: %w", s.round.Bet, s.account.Chips(), ErrInsufficientChips)
	}

	s.round.Bet *= 2
	s.round.Doubled = true
	s.dealTo(PlayerSeat, false)
	s.recordAction(ActionDouble, evaluator.Evaluate(s.round.Player))
	s.finishPlayerTurn()
	return s.PlayerHand(), nil
}

// StartNewRound clears the table and returns to betting. A round abandoned
// before settlement forfeits its bet and is not counted in the records.
func (s *Session) StartNewRound() {
	switch {
	case s.round.settled:
		// already published
	case s.round.ID != "":
		s.logger.Warn("Round abandoned", "round", s.round.ID, "phase", s.round.Phase, "bet", s.round.Bet)
		s.eventBus.Publish(NewRoundEndEvent(s.clock.Now(), &s.round, s.account.Chips()))
	}
	s.round = RoundState{Phase: Betting}
}

// AddChips buys more chips. Purchases are only allowed between rounds and
// while the balance is below the top-up threshold.
func (s *Session) AddChips(amount int) error {
	if s.round.Phase != Betting && s.round.Phase != RoundOver {
		return fmt.Errorf("cannot buy chips during %s: %w", s.round.Phase, ErrIllegalAction)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d: %w", amount, ErrTopUpNotAllowed)
	}
	if s.account.Chips() >= s.topUpThreshold {
		return fmt.Errorf("balance %d is not below %d: %w", s.account.Chips(), s.topUpThreshold, ErrTopUpNotAllowed)
	}

	s.account.AddChips(amount)
	s.logger.Info("Chips added", "amount", amount, "chips", s.account.Chips(), "bought", s.account.Bought())
	s.eventBus.Publish(NewChipsAddedEvent(s.clock.Now(), amount, s.account.Chips(), s.account.Bought()))
	return nil
}

func (s *Session) requireTurn(action string) error {
	if s.round.Phase != PlayerActing || !s.round.CanAct {
		return fmt.Errorf("cannot %s during %s: %w", action, s.round.Phase, ErrIllegalAction)
	}
	return nil
}

// requireDraw is requireTurn for actions that take a card. A natural can
// only stand.
func (s *Session) requireDraw(action string) error {
	if err := s.requireTurn(action); err != nil {
		return err
	}
	if evaluator.IsNatural(s.round.Player) {
		return fmt.Errorf("cannot %s on a natural: %w", action, ErrIllegalAction)
	}
	return nil
}

func (s *Session) recordAction(action Action, score evaluator.Score) {
	s.round.Actions = append(s.round.Actions, action)
	s.logger.Debug("Player action", "round", s.round.ID, "action", action, "total", score.Total)
	s.eventBus.Publish(NewPlayerActionEvent(s.clock.Now(), s.round.ID, action, s.round.Bet, score))
}

// deal hands out player, dealer, player, dealer; the dealer's second card
// goes face down.
func (s *Session) deal() {
	s.dealTo(PlayerSeat, false)
	s.dealTo(DealerSeat, false)
	s.dealTo(PlayerSeat, false)
	s.dealTo(DealerSeat, true)

	s.round.Phase = PlayerActing
	s.round.CanAct = true
}

func (s *Session) dealTo(seat Seat, faceDown bool) {
	before := s.shoe.Shuffles()
	card := s.shoe.Draw()
	if s.shoe.Shuffles() != before {
		s.logger.Info("Shoe reshuffled", "decks", s.shoe.Decks())
		s.eventBus.Publish(NewShoeShuffledEvent(s.clock.Now(), s.shoe.Decks(), s.shoe.Remaining()+1))
	}

	var score evaluator.Score
	if seat == DealerSeat {
		s.round.Dealer = append(s.round.Dealer, card)
		score = s.DealerHand().Score
	} else {
		s.round.Player = append(s.round.Player, card)
		score = evaluator.Evaluate(s.round.Player)
	}
	s.eventBus.Publish(NewCardDealtEvent(s.clock.Now(), s.round.ID, seat, card, faceDown, score))
}

func (s *Session) finishPlayerTurn() {
	s.round.CanAct = false
	s.round.Phase = DealerActing
	s.playDealer()
	if err := s.settle(); err != nil {
		s.logger.Error("Settlement failed", "round", s.round.ID, "error", err)
	}
}

// playDealer reveals the hole card and draws until the total reaches 17
func (s *Session) playDealer() {
	s.eventBus.Publish(NewDealerRevealEvent(s.clock.Now(), s.round.ID, s.round.Dealer))
	for evaluator.Evaluate(s.round.Dealer).Total < DealerStandsOn {
		s.dealTo(DealerSeat, false)
	}
	s.logger.Debug("Dealer stands", "round", s.round.ID, "total", evaluator.Evaluate(s.round.Dealer).Total)
	s.round.Phase = Settling
}

// settle runs the settlement engine once per round
func (s *Session) settle() error {
	if s.round.settled {
		return fmt.Errorf("round %s: %w", s.round.ID, ErrAlreadySettled)
	}
	if s.round.Phase != Settling {
		return fmt.Errorf("cannot settle during %s: %w", s.round.Phase, ErrIllegalAction)
	}

	result := Settle(s.round.Player, s.round.Dealer, s.round.Bet)
	s.account.Settle(result.Payout)
	s.account.Record(result.Outcome)
	s.round.result = result
	s.round.settled = true
	s.round.Phase = RoundOver

	s.logger.Info("Round settled",
		"round", s.round.ID,
		"outcome", result.Outcome,
		"reason", result.Reason,
		"bet", result.Bet,
		"payout", result.Payout,
		"chips", s.account.Chips())
	s.eventBus.Publish(NewRoundEndEvent(s.clock.Now(), &s.round, s.account.Chips()))
	return nil
}
