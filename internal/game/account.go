package game

import "fmt"

// Records is the running win/loss/draw tally for a session
type Records struct {
	Wins   int
	Losses int
	Draws  int
}

// Total returns the number of settled rounds
func (r Records) Total() int {
	return r.Wins + r.Losses + r.Draws
}

// WinProbability returns wins / settled rounds, or 0 before any round settles
func (r Records) WinProbability() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(total)
}

// Account tracks the player's chips across rounds. Chips only move through
// Bet, Settle and AddChips.
type Account struct {
	chips   int
	bought  int
	initial int
	records Records
}

// NewAccount creates an account holding the starting chips
func NewAccount(chips int) *Account {
	return &Account{chips: chips, initial: chips}
}

// Chips returns the spendable balance
func (a *Account) Chips() int { return a.chips }

// Bought returns the lifetime amount of purchased chips
func (a *Account) Bought() int { return a.bought }

// Initial returns the starting balance
func (a *Account) Initial() int { return a.initial }

// Records returns the win/loss/draw tally
func (a *Account) Records() Records { return a.records }

// NetEarnings returns how far the balance is above what was staked and bought
func (a *Account) NetEarnings() int {
	return a.chips - a.initial - a.bought
}

// Bet removes amount from the balance
func (a *Account) Bet(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("bet must be positive, got %d: %w", amount, ErrInvalidBet)
	}
	if amount > a.chips {
		return fmt.Errorf("bet %d exceeds balance %d: %w", amount, a.chips, ErrInsufficientChips)
	}
	a.chips -= amount
	return nil
}

// Settle credits a payout back to the balance
func (a *Account) Settle(payout int) {
	a.chips += payout
}

// AddChips buys more chips
func (a *Account) AddChips(amount int) {
	a.chips += amount
	a.bought += amount
}

// Record bumps the counter matching the outcome
func (a *Account) Record(o Outcome) {
	switch o {
	case Win:
		a.records.Wins++
	case Loss:
		a.records.Losses++
	case Draw:
		a.records.Draws++
	}
}
