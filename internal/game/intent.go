package game

import "fmt"

// IntentKind identifies an Intent without its payload
type IntentKind int

const (
	IntentPlaceBet IntentKind = iota
	IntentHit
	IntentStand
	IntentDouble
	IntentNewRound
	IntentAddChips
)

func (k IntentKind) String() string {
	switch k {
	case IntentPlaceBet:
		return "bet"
	case IntentHit:
		return "hit"
	case IntentStand:
		return "stand"
	case IntentDouble:
		return "double"
	case IntentNewRound:
		return "new round"
	case IntentAddChips:
		return "add chips"
	default:
		return "unknown"
	}
}

// Intent is a discrete request from the player. The set is closed: only the
// types in this package implement it.
type Intent interface {
	Kind() IntentKind
	isIntent()
}

// PlaceBet stakes Amount chips on a new round
type PlaceBet struct{ Amount int }

// Hit draws one more card
type Hit struct{}

// Stand ends the player's turn
type Stand struct{}

// Double doubles the bet, draws exactly one card and ends the player's turn
type Double struct{}

// NewRound clears the table for the next bet, abandoning any round in progress
type NewRound struct{}

// AddChips buys Amount chips
type AddChips struct{ Amount int }

func (PlaceBet) Kind() IntentKind { return IntentPlaceBet }
func (Hit) Kind() IntentKind      { return IntentHit }
func (Stand) Kind() IntentKind    { return IntentStand }
func (Double) Kind() IntentKind   { return IntentDouble }
func (NewRound) Kind() IntentKind { return IntentNewRound }
func (AddChips) Kind() IntentKind { return IntentAddChips }

func (PlaceBet) isIntent() {}
func (Hit) isIntent()      {}
func (Stand) isIntent()    {}
func (Double) isIntent()   {}
func (NewRound) isIntent() {}
func (AddChips) isIntent() {}

// Dispatch applies an intent to the session
func (s *Session) Dispatch(in Intent) error {
	switch in := in.(type) {
	case PlaceBet:
		return s.PlaceBet(in.Amount)
	case Hit:
		_, err := s.Hit()
		return err
	case Stand:
		return s.Stand()
	case Double:
		_, err := s.Double()
		return err
	case NewRound:
		s.StartNewRound()
		return nil
	case AddChips:
		return s.AddChips(in.Amount)
	default:
		return fmt.Errorf("unknown intent %T: %w", in, ErrIllegalAction)
	}
}

// ValidIntents returns the intents the current phase accepts. Balance checks
// are included, so Double only appears when it would succeed.
func (s *Session) ValidIntents() []IntentKind {
	switch s.round.Phase {
	case Betting:
		kinds := []IntentKind{}
		if s.account.Chips() > 0 {
			kinds = append(kinds, IntentPlaceBet)
		}
		if s.CanTopUp() {
			kinds = append(kinds, IntentAddChips)
		}
		return kinds
	case PlayerActing:
		if s.PlayerHand().Natural {
			return []IntentKind{IntentStand, IntentNewRound}
		}
		kinds := []IntentKind{IntentHit, IntentStand}
		if s.CanDouble() {
			kinds = append(kinds, IntentDouble)
		}
		return append(kinds, IntentNewRound)
	case RoundOver:
		kinds := []IntentKind{IntentNewRound}
		if s.CanTopUp() {
			kinds = append(kinds, IntentAddChips)
		}
		return kinds
	default:
		return nil
	}
}
