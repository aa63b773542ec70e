package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
)

func TestSettle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		player  string
		dealer  string
		bet     int
		outcome Outcome
		reason  Reason
		payout  int
	}{
		{"natural beats eighteen", "AsKh", "9c9d9h", 100, Win, ReasonPlayerBlackjack, 250},
		{"dealer natural beats twenty", "TsTh", "AcKd", 100, Loss, ReasonDealerBlackjack, 0},
		{"both natural push", "AsKh", "AdQc", 100, Draw, ReasonBothBlackjack, 100},
		{"player bust loses even when dealer busts", "TsTh5c", "Tc6d9h", 100, Loss, ReasonPlayerBust, 0},
		{"player bust loses to dealer natural", "TsTh5c", "AcKd", 100, Loss, ReasonPlayerBust, 0},
		{"dealer bust", "Ts8h", "Tc6d9h", 100, Win, ReasonDealerBust, 200},
		{"higher total", "TsQh", "Tc8d", 100, Win, ReasonHigherTotal, 200},
		{"lower total", "Ts7h", "Tc8d", 100, Loss, ReasonLowerTotal, 0},
		{"equal total", "Ts9h", "Tc9d", 100, Draw, ReasonEqualTotal, 100},
		{"three card 21 is not a natural", "7s7h7c", "AcKd", 100, Loss, ReasonDealerBlackjack, 0},
		{"three card 21 ties dealer 21", "7s7h7c", "Tc5d6h", 100, Draw, ReasonEqualTotal, 100},
		{"natural beats three card 21", "AsJh", "7c7d7h", 100, Win, ReasonPlayerBlackjack, 250},
		{"odd natural payout rounds down", "AsKh", "Tc8d", 5, Win, ReasonPlayerBlackjack, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settle(deck.MustParseCards(tt.player), deck.MustParseCards(tt.dealer), tt.bet)
			assert.Equal(t, tt.outcome, got.Outcome)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.payout, got.Payout)
			assert.Equal(t, tt.bet, got.Bet)
			assert.Equal(t, tt.payout-tt.bet, got.Net())
		})
	}
}

func TestSettlementMessage(t *testing.T) {
	tests := []struct {
		player, dealer string
		want           string
	}{
		{"AsKh", "9c9d", "Blackjack! You win $150."},
		{"TsTh5c", "Tc8d", "You bust with 25. Dealer wins, you lose $100."},
		{"AsKh", "AdQc", "Both have blackjack. Push, your bet is returned."},
		{"TsTh", "AcKd", "Dealer has blackjack. You lose $100."},
		{"Ts8h", "Tc6d9h", "Dealer busts with 25. You win $100."},
		{"TsQh", "Tc8d", "You win $100, 20 to 18."},
		{"Ts7h", "Tc8d", "Dealer wins 18 to 17. You lose $100."},
		{"Ts9h", "Tc9d", "Push at 19, your bet is returned."},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := Settle(deck.MustParseCards(tt.player), deck.MustParseCards(tt.dealer), 100)
			assert.Equal(t, tt.want, s.Message())
		})
	}
}
