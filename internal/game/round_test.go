package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func TestNaturalWinsThreeToTwo(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "As 9d Kh 9c")

	require.NoError(t, s.PlaceBet(100))
	assert.Equal(t, 400, s.Chips())
	assert.Equal(t, PlayerActing, s.Phase())
	assert.True(t, s.PlayerHand().Natural)

	require.NoError(t, s.Stand())
	assert.Equal(t, RoundOver, s.Phase())

	result, ok := s.LastSettlement()
	require.True(t, ok)
	assert.Equal(t, Win, result.Outcome)
	assert.Equal(t, 250, result.Payout)
	assert.Equal(t, 650, s.Chips())
	assert.Equal(t, Records{Wins: 1}, s.Records())
	assert.Equal(t, "Blackjack! You win $150.", s.Message())
}

func TestNaturalCanOnlyStand(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "As 9d Kh 9c 5s")

	require.NoError(t, s.PlaceBet(100))
	require.True(t, s.PlayerHand().Natural)
	assert.False(t, s.CanDouble())
	events := len(bus.events)

	_, err := s.Hit()
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = s.Double()
	assert.ErrorIs(t, err, ErrIllegalAction)

	assert.Equal(t, PlayerActing, s.Phase())
	assert.Equal(t, 2, s.PlayerHand().Len())
	assert.Equal(t, 100, s.CurrentBet())
	assert.Equal(t, 400, s.Chips())
	assert.Len(t, bus.events, events, "rejected actions publish nothing")

	require.NoError(t, s.Stand())
	result, ok := s.LastSettlement()
	require.True(t, ok)
	assert.Equal(t, ReasonPlayerBlackjack, result.Reason)
	assert.Equal(t, 650, s.Chips())
}

func TestHitBustEndsTurn(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "Ts 9d 6h 8c Kd")

	require.NoError(t, s.PlaceBet(50))
	hand, err := s.Hit()
	require.NoError(t, err)
	assert.True(t, hand.Bust())
	assert.Equal(t, 26, hand.Score.Total)

	assert.Equal(t, RoundOver, s.Phase())
	assert.False(t, s.CanAct())

	_, err = s.Hit()
	assert.ErrorIs(t, err, ErrIllegalAction)

	result, _ := s.LastSettlement()
	assert.Equal(t, ReasonPlayerBust, result.Reason)
	assert.Equal(t, 450, s.Chips())
	assert.Equal(t, Records{Losses: 1}, s.Records())
}

func TestHitWithoutBustKeepsTurn(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "2s 9d 3h 8c 4d")

	require.NoError(t, s.PlaceBet(10))
	hand, err := s.Hit()
	require.NoError(t, err)
	assert.Len(t, hand.Cards, 3)
	assert.Equal(t, 9, hand.Score.Total)
	assert.Equal(t, PlayerActing, s.Phase())
	assert.True(t, s.CanAct())
}

func TestDealerStopsAtSeventeen(t *testing.T) {
	t.Parallel()
	// dealer 5+6, draws 6 to reach exactly 17 and must leave the king
	s, _, _ := newTestSession(t, "Ts 5d 9h 6c 6s Kd")

	require.NoError(t, s.PlaceBet(100))
	require.NoError(t, s.Stand())

	dealer := s.DealerHand()
	assert.Len(t, dealer.Cards, 3)
	assert.Zero(t, dealer.Hidden)
	assert.Equal(t, 17, dealer.Score.Total)
	assert.Equal(t, 1, s.ShoeRemaining())

	result, _ := s.LastSettlement()
	assert.Equal(t, Win, result.Outcome)
	assert.Equal(t, ReasonHigherTotal, result.Reason)
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "Ts Ad 7h 6c Kd")

	require.NoError(t, s.PlaceBet(100))
	require.NoError(t, s.Stand())

	dealer := s.DealerHand()
	assert.Len(t, dealer.Cards, 2)
	assert.Equal(t, 17, dealer.Score.Total)
	assert.True(t, dealer.Score.Soft)

	result, _ := s.LastSettlement()
	assert.Equal(t, Draw, result.Outcome)
	assert.Equal(t, 500, s.Chips())
}

func TestDealerDrawsAfterPlayerBust(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "Ts 5d 6h 6c Kh 2s 4s")

	require.NoError(t, s.PlaceBet(100))
	_, err := s.Hit()
	require.NoError(t, err)

	dealer := s.DealerHand()
	assert.Equal(t, 17, dealer.Score.Total, "dealer plays out the hand: 5+6+2+4")
	result, _ := s.LastSettlement()
	assert.Equal(t, ReasonPlayerBust, result.Reason)
}

func TestDouble(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "5s 9d 6h 7c Ts Kd")

	require.NoError(t, s.PlaceBet(100))
	require.True(t, s.CanDouble())

	hand, err := s.Double()
	require.NoError(t, err)
	assert.Len(t, hand.Cards, 3, "exactly one card is drawn")
	assert.Equal(t, 21, hand.Score.Total)
	assert.Equal(t, 200, s.CurrentBet())
	assert.True(t, s.Doubled())
	assert.Equal(t, RoundOver, s.Phase())

	result, _ := s.LastSettlement()
	assert.Equal(t, ReasonDealerBust, result.Reason)
	assert.Equal(t, 400, result.Payout)
	assert.Equal(t, 700, s.Chips())

	_, err = s.Double()
	assert.ErrorIs(t, err, ErrIllegalAction, "double is accepted once per round")

	var actions []Action
	for _, e := range bus.events {
		if a, ok := e.(PlayerActionEvent); ok {
			actions = append(actions, a.Action)
		}
	}
	assert.Equal(t, []Action{ActionDouble}, actions)
}

func TestDoubleEndsTurnEvenWhenLow(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "2s 9d 3h 8c 4d")

	require.NoError(t, s.PlaceBet(100))
	hand, err := s.Double()
	require.NoError(t, err)
	assert.Equal(t, 9, hand.Score.Total)
	assert.Equal(t, RoundOver, s.Phase())
}

func TestDoubleInsufficientChips(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "5s 9d 6h 7c Ts Kd", WithStartingChips(150))

	require.NoError(t, s.PlaceBet(100))
	assert.False(t, s.CanDouble())
	before := s.PlayerHand()

	_, err := s.Double()
	require.ErrorIs(t, err, ErrInsufficientChips)
	assert.Equal(t, WarningInsufficientChips, WarningFor(err))

	assert.Equal(t, PlayerActing, s.Phase())
	assert.Equal(t, before, s.PlayerHand())
	assert.Equal(t, 100, s.CurrentBet())
	assert.Equal(t, 50, s.Chips())
	assert.False(t, s.Doubled())
	assert.Equal(t, 2, s.ShoeRemaining())
}

func TestDoubleAfterHitIsIllegal(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "2s 9d 3h 8c 4d")

	require.NoError(t, s.PlaceBet(100))
	_, err := s.Hit()
	require.NoError(t, err)

	_, err = s.Double()
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, 100, s.CurrentBet())
	assert.Equal(t, 400, s.Chips())
}

func TestPlaceBetValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int
	}{
		{"zero", 0},
		{"negative", -5},
		{"above balance", 501},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, bus, _ := newTestSession(t, "Ts 9d 9h Tc")
			err := s.PlaceBet(tt.amount)
			require.ErrorIs(t, err, ErrInvalidBet)
			assert.Equal(t, WarningInvalidBet, WarningFor(err))
			assert.Equal(t, Betting, s.Phase())
			assert.Equal(t, 500, s.Chips())
			assert.Empty(t, bus.events)
		})
	}
}

func TestBetWholeBalance(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "Ts 9d 9h Tc")
	require.NoError(t, s.PlaceBet(500))
	assert.Zero(t, s.Chips())
	require.NoError(t, s.Stand())
	assert.Equal(t, 500, s.Chips(), "push returns the stake")
}

func TestActionsOutOfPhase(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "Ts 9d 9h Tc")

	_, err := s.Hit()
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.ErrorIs(t, s.Stand(), ErrIllegalAction)
	_, err = s.Double()
	assert.ErrorIs(t, err, ErrIllegalAction)

	require.NoError(t, s.PlaceBet(10))
	assert.ErrorIs(t, s.PlaceBet(10), ErrIllegalAction)

	require.NoError(t, s.Stand())
	assert.ErrorIs(t, s.Stand(), ErrIllegalAction)
	assert.ErrorIs(t, s.PlaceBet(10), ErrIllegalAction)
}

func TestSettleRunsOnce(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "Ts 9d Qh Tc")

	require.NoError(t, s.PlaceBet(100))
	require.NoError(t, s.Stand())
	chips, records, events := s.Chips(), s.Records(), len(bus.events)

	err := s.settle()
	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Equal(t, chips, s.Chips())
	assert.Equal(t, records, s.Records())
	assert.Len(t, bus.events, events)
}

func TestStartNewRoundResets(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "Ts 9d Qh Tc")

	require.NoError(t, s.PlaceBet(100))
	require.NoError(t, s.Stand())
	require.Equal(t, RoundOver, s.Phase())

	s.StartNewRound()
	assert.Equal(t, Betting, s.Phase())
	assert.Empty(t, s.PlayerHand().Cards)
	assert.Empty(t, s.DealerHand().Cards)
	assert.Zero(t, s.CurrentBet())
	assert.Empty(t, s.RoundID())
	assert.Empty(t, s.Message())
	_, ok := s.LastSettlement()
	assert.False(t, ok)

	assert.Equal(t, Records{Wins: 1}, s.Records(), "records survive the reset")
	assert.Equal(t, 600, s.Chips())
}

func TestAbandonRoundForfeitsBet(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "Ts 9d 6h Tc")

	require.NoError(t, s.PlaceBet(100))
	s.StartNewRound()

	assert.Equal(t, Betting, s.Phase())
	assert.Equal(t, 400, s.Chips())
	assert.Zero(t, s.Records().Total())

	last := bus.events[len(bus.events)-1]
	end, ok := last.(RoundEndEvent)
	require.True(t, ok)
	assert.True(t, end.Abandoned())
	assert.Equal(t, 100, end.Bet)

	history := s.History()
	require.Len(t, history, 1)
	assert.True(t, history[0].Abandoned())
}

func TestStartNewRoundWhileBettingIsNoop(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "Ts 9d 6h Tc")
	s.StartNewRound()
	assert.Equal(t, Betting, s.Phase())
	assert.Empty(t, bus.events)
	assert.Empty(t, s.History())
}

func TestDealerHoleCardHidden(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestSession(t, "Ts Ad 9h Kc")

	require.NoError(t, s.PlaceBet(100))
	dealer := s.DealerHand()
	assert.Equal(t, deck.MustParseCards("Ad"), dealer.Cards)
	assert.Equal(t, 1, dealer.Hidden)
	assert.Equal(t, 2, dealer.Len())
	assert.Equal(t, 11, dealer.Score.Total)
	assert.False(t, dealer.Natural, "natural is not visible while the hole card is down")

	require.NoError(t, s.Stand())
	dealer = s.DealerHand()
	assert.Zero(t, dealer.Hidden)
	assert.True(t, dealer.Natural)

	result, _ := s.LastSettlement()
	assert.Equal(t, ReasonDealerBlackjack, result.Reason)
}

func TestAddChips(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "Ts 9d 7h Tc")

	err := s.AddChips(500)
	require.ErrorIs(t, err, ErrTopUpNotAllowed, "balance is not below the threshold")
	assert.Equal(t, WarningTopUpDenied, WarningFor(err))
	assert.False(t, s.CanTopUp())

	require.NoError(t, s.PlaceBet(100))
	assert.ErrorIs(t, s.AddChips(100), ErrIllegalAction, "no purchases mid-round")
	require.NoError(t, s.Stand())
	require.Equal(t, 400, s.Chips())
	require.True(t, s.CanTopUp())

	assert.ErrorIs(t, s.AddChips(0), ErrTopUpNotAllowed)

	net := s.NetEarnings()
	require.NoError(t, s.AddChips(500))
	assert.Equal(t, 900, s.Chips())
	assert.Equal(t, 500, s.Bought())
	assert.Equal(t, net, s.NetEarnings(), "purchases are not earnings")

	last, ok := bus.events[len(bus.events)-1].(ChipsAddedEvent)
	require.True(t, ok)
	assert.Equal(t, 500, last.Amount)
	assert.Equal(t, 900, last.Chips)
}

func TestEventSequence(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "Ts 5d 9h 6c 6s")

	require.NoError(t, s.PlaceBet(100))
	require.NoError(t, s.Stand())

	assert.Equal(t, []EventType{
		EventTypeRoundStart,
		EventTypeCardDealt,
		EventTypeCardDealt,
		EventTypeCardDealt,
		EventTypeCardDealt,
		EventTypePlayerAction,
		EventTypeDealerReveal,
		EventTypeCardDealt,
		EventTypeRoundEnd,
	}, bus.types())

	hole, ok := bus.events[4].(CardDealtEvent)
	require.True(t, ok)
	assert.True(t, hole.FaceDown)
	assert.Equal(t, DealerSeat, hole.Seat)
	assert.Equal(t, 5, hole.Score.Total, "face-down card does not count towards the visible score")

	reveal, ok := bus.events[6].(DealerRevealEvent)
	require.True(t, ok)
	assert.Equal(t, deck.MustParseCards("6c")[0], reveal.HoleCard)
	assert.Equal(t, 11, reveal.Score.Total)
}

func TestRoundDurationUsesClock(t *testing.T) {
	t.Parallel()
	s, bus, clock := newTestSession(t, "Ts 9d Qh Tc")

	require.NoError(t, s.PlaceBet(100))
	clock.Advance(5 * time.Second).MustWait(context.Background())
	require.NoError(t, s.Stand())

	end, ok := bus.events[len(bus.events)-1].(RoundEndEvent)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, end.Duration)
	assert.Equal(t, clock.Now(), end.Timestamp())
}

func TestReshuffleEvent(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "2s 9d 3h 8c")

	require.NoError(t, s.PlaceBet(10))
	_, err := s.Hit()
	require.NoError(t, err)

	var shuffles []ShoeShuffledEvent
	for _, e := range bus.events {
		if sh, ok := e.(ShoeShuffledEvent); ok {
			shuffles = append(shuffles, sh)
		}
	}
	require.Len(t, shuffles, 1)
	assert.Equal(t, 52, shuffles[0].Cards)
	assert.Len(t, s.PlayerHand().Cards, 3)
}

func TestWinProbability(t *testing.T) {
	t.Parallel()
	// round 1: 20 v 19 win; round 2: 17 v 18 loss
	s, _, _ := newTestSession(t, "Ts 9d Qh Tc  Ts 8d 7h Tc")
	assert.Zero(t, s.WinProbability())

	require.NoError(t, s.PlaceBet(100))
	require.NoError(t, s.Stand())
	assert.InDelta(t, 1.0, s.WinProbability(), 1e-9)

	s.StartNewRound()
	require.NoError(t, s.PlaceBet(100))
	require.NoError(t, s.Stand())
	assert.InDelta(t, 0.5, s.WinProbability(), 1e-9)
	assert.Equal(t, 500, s.Chips())
	assert.Len(t, s.History(), 2)
}

func TestChipsConservedOverManyRounds(t *testing.T) {
	t.Parallel()
	s, bus, _ := newTestSession(t, "", WithStartingChips(10_000))

	for range 200 {
		before := s.Chips()
		require.NoError(t, s.PlaceBet(10))
		if s.CanDouble() && s.PlayerHand().Score.Total == 11 {
			_, err := s.Double()
			require.NoError(t, err)
		}
		for s.Phase() == PlayerActing && s.PlayerHand().Score.Total < 17 {
			_, err := s.Hit()
			require.NoError(t, err)
		}
		if s.Phase() == PlayerActing {
			require.NoError(t, s.Stand())
		}
		require.Equal(t, RoundOver, s.Phase())

		result, ok := s.LastSettlement()
		require.True(t, ok)
		assert.Equal(t, before+result.Net(), s.Chips())
		s.StartNewRound()
	}
	assert.Equal(t, 200, s.Records().Total())
	assert.NotEmpty(t, bus.events)
}
