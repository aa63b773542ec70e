package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
)

// Outcome is the result of a settled round from the player's side
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "push"
	default:
		return "unknown"
	}
}

// Reason records which settlement rule decided the round
type Reason int

const (
	ReasonPlayerBust Reason = iota
	ReasonPlayerBlackjack
	ReasonBothBlackjack
	ReasonDealerBlackjack
	ReasonDealerBust
	ReasonHigherTotal
	ReasonLowerTotal
	ReasonEqualTotal
)

func (r Reason) String() string {
	switch r {
	case ReasonPlayerBust:
		return "player bust"
	case ReasonPlayerBlackjack:
		return "player blackjack"
	case ReasonBothBlackjack:
		return "both blackjack"
	case ReasonDealerBlackjack:
		return "dealer blackjack"
	case ReasonDealerBust:
		return "dealer bust"
	case ReasonHigherTotal:
		return "higher total"
	case ReasonLowerTotal:
		return "lower total"
	case ReasonEqualTotal:
		return "equal total"
	default:
		return "unknown"
	}
}

// Settlement is the outcome of one round and the amount credited back
type Settlement struct {
	Outcome     Outcome
	Reason      Reason
	Bet         int
	Payout      int // returned to the balance, stake included
	PlayerScore evaluator.Score
	DealerScore evaluator.Score
}

// Net returns the change in balance over the round
func (s Settlement) Net() int {
	return s.Payout - s.Bet
}

// Settle decides a round. The rules are applied in strict order: player bust,
// player natural, dealer natural, then totals.
func Settle(player, dealer []deck.Card, bet int) Settlement {
	ps, ds := evaluator.Evaluate(player), evaluator.Evaluate(dealer)
	s := Settlement{Bet: bet, PlayerScore: ps, DealerScore: ds}

	playerNatural := evaluator.IsNatural(player)
	dealerNatural := evaluator.IsNatural(dealer)

	switch {
	case ps.Bust():
		s.Outcome, s.Reason = Loss, ReasonPlayerBust
	case playerNatural && dealerNatural:
		s.Outcome, s.Reason, s.Payout = Draw, ReasonBothBlackjack, bet
	case playerNatural:
		// 3:2 on the stake; half chips round down
		s.Outcome, s.Reason, s.Payout = Win, ReasonPlayerBlackjack, bet*2+bet/2
	case dealerNatural:
		s.Outcome, s.Reason = Loss, ReasonDealerBlackjack
	case ds.Bust():
		s.Outcome, s.Reason, s.Payout = Win, ReasonDealerBust, bet*2
	case ps.Total > ds.Total:
		s.Outcome, s.Reason, s.Payout = Win, ReasonHigherTotal, bet*2
	case ps.Total < ds.Total:
		s.Outcome, s.Reason = Loss, ReasonLowerTotal
	default:
		s.Outcome, s.Reason, s.Payout = Draw, ReasonEqualTotal, bet
	}
	return s
}

// Message returns the result line shown to the player
func (s Settlement) Message() string {
	switch s.Reason {
	case ReasonPlayerBust:
		return fmt.Sprintf("You bust with %d. Dealer wins, you lose $%d.", s.PlayerScore.Total, s.Bet)
	case ReasonPlayerBlackjack:
		return fmt.Sprintf("Blackjack! You win $%d.", s.Net())
	case ReasonBothBlackjack:
		return "Both have blackjack. Push, your bet is returned."
	case ReasonDealerBlackjack:
		return fmt.Sprintf("Dealer has blackjack. You lose $%d.", s.Bet)
	case ReasonDealerBust:
		return fmt.Sprintf("Dealer busts with %d. You win $%d.", s.DealerScore.Total, s.Net())
	case ReasonHigherTotal:
		return fmt.Sprintf("You win $%d, %d to %d.", s.Net(), s.PlayerScore.Total, s.DealerScore.Total)
	case ReasonLowerTotal:
		return fmt.Sprintf("Dealer wins %d to %d. You lose $%d.", s.DealerScore.Total, s.PlayerScore.Total, s.Bet)
	case ReasonEqualTotal:
		return fmt.Sprintf("Push at %d, your bet is returned.", s.PlayerScore.Total)
	default:
		return s.Outcome.String()
	}
}
