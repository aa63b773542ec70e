package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult is the outcome of a single settled round from the player's seat
type RoundResult struct {
	Net     int // chips won or lost, stake included
	Bet     int // total stake, doubled bets included
	Payout  int
	Outcome game.Outcome
	Reason  game.Reason
	Doubled bool
}

// Statistics tracks session results in chips per round
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Wins   int
	Losses int
	Pushes int

	Blackjacks  int // Player naturals paid 3:2
	PlayerBusts int
	DealerBusts int
	Doubles     int
	DoubleWins  int

	Wagered  int
	Returned int

	BiggestWin  int
	BiggestLoss int

	Abandoned      int // Rounds cleared before settlement
	AbandonedChips int // Stakes forfeited by abandoning
	Purchased      int // Chips bought during the session
}

// Mean returns the arithmetic mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a settled round
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	switch result.Outcome {
	case game.Win:
		s.Wins++
	case game.Draw:
		s.Pushes++
	default:
		s.Losses++
	}

	switch result.Reason {
	case game.ReasonPlayerBlackjack:
		s.Blackjacks++
	case game.ReasonPlayerBust:
		s.PlayerBusts++
	case game.ReasonDealerBust:
		s.DealerBusts++
	}

	if result.Doubled {
		s.Doubles++
		if result.Outcome == game.Win {
			s.DoubleWins++
		}
	}

	s.Wagered += result.Bet
	s.Returned += result.Payout

	if result.Net > s.BiggestWin {
		s.BiggestWin = result.Net
	}
	if -result.Net > s.BiggestLoss {
		s.BiggestLoss = -result.Net
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns wins over settled rounds
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// HouseEdge returns the share of wagered chips the house kept
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return float64(s.Wagered-s.Returned) / float64(s.Wagered)
}

// IsLedgerBalanced checks that net results match what was wagered and returned
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.SumNet-float64(s.Returned-s.Wagered)) <= 1e-6
}

// Validate performs consistency checks over the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: net=%.0f, returned=%d, wagered=%d",
			s.SumNet, s.Returned, s.Wagered)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("outcomes (%d/%d/%d) do not add up to %d rounds",
			s.Wins, s.Losses, s.Pushes, s.Rounds)
	}
	if s.DoubleWins > s.Doubles {
		return fmt.Errorf("double wins (%d) exceed doubles (%d)", s.DoubleWins, s.Doubles)
	}
	return nil
}

// Summary renders the statistics as a plain-text report
func (s *Statistics) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rounds played:  %d", s.Rounds)
	if s.Abandoned > 0 {
		fmt.Fprintf(&sb, " (+%d abandoned, $%d forfeited)", s.Abandoned, s.AbandonedChips)
	}
	sb.WriteString("\n")
	if s.Rounds == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "Record:         %d W / %d L / %d P (%.1f%% wins)\n", s.Wins, s.Losses, s.Pushes, s.WinRate()*100)
	fmt.Fprintf(&sb, "Blackjacks:     %d\n", s.Blackjacks)
	fmt.Fprintf(&sb, "Busts:          player %d, dealer %d\n", s.PlayerBusts, s.DealerBusts)
	fmt.Fprintf(&sb, "Doubles:        %d (%d won)\n", s.Doubles, s.DoubleWins)
	fmt.Fprintf(&sb, "Wagered:        $%d, returned $%d\n", s.Wagered, s.Returned)
	fmt.Fprintf(&sb, "Net:            %+.0f ($%.2f per round ± %.2f)\n", s.SumNet, s.Mean(), 1.96*s.StdError())
	fmt.Fprintf(&sb, "Biggest win:    $%d\n", s.BiggestWin)
	fmt.Fprintf(&sb, "Biggest loss:   $%d\n", s.BiggestLoss)
	if s.Purchased > 0 {
		fmt.Fprintf(&sb, "Chips bought:   $%d\n", s.Purchased)
	}
	return sb.String()
}
