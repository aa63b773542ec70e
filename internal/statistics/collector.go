package statistics

import "github.com/lox/blackjack/internal/game"

// Collector feeds Statistics from a session's event bus
type Collector struct {
	stats Statistics
}

// NewCollector creates a collector. Subscribe it with bus.Subscribe.
func NewCollector() *Collector {
	return &Collector{}
}

// OnEvent implements game.EventSubscriber
func (c *Collector) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundEndEvent:
		if e.Abandoned() {
			c.stats.Abandoned++
			c.stats.AbandonedChips += e.Bet
			return
		}
		c.stats.Add(RoundResult{
			Net:     e.Settlement.Net(),
			Bet:     e.Settlement.Bet,
			Payout:  e.Settlement.Payout,
			Outcome: e.Settlement.Outcome,
			Reason:  e.Settlement.Reason,
			Doubled: e.Doubled,
		})
	case game.ChipsAddedEvent:
		c.stats.Purchased += e.Amount
	}
}

// Stats returns a snapshot of the collected statistics
func (c *Collector) Stats() Statistics {
	s := c.stats
	s.Values = append([]float64(nil), c.stats.Values...)
	return s
}
