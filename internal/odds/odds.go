// Package odds estimates how a blackjack spot plays out by Monte Carlo
// simulation over the cards the player has not seen.
package odds

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

// DefaultSamples is used when the caller does not configure a sample count
const DefaultSamples = 20000

var (
	ErrNoSamples      = errors.New("sample count must be positive")
	ErrNotEnoughCards = errors.New("not enough unseen cards to simulate")
)

// Situation is the spot being evaluated. Unseen holds every card that could
// still be dealt, the dealer's hole card included.
type Situation struct {
	Player   []deck.Card
	DealerUp deck.Card
	Unseen   []deck.Card
}

// Outcomes are the probabilities of each result for one line of play
type Outcomes struct {
	Win  float64
	Push float64
	Loss float64
}

// EV returns the expected return per unit bet, ignoring the natural bonus
func (o Outcomes) EV() float64 {
	return o.Win - o.Loss
}

// Estimate compares standing now with taking exactly one more card and
// standing.
type Estimate struct {
	Samples   int
	BustOnHit float64
	Stand     Outcomes
	Hit       Outcomes
}

// Advice returns "hit" or "stand", whichever has the higher expected return
func (e Estimate) Advice() string {
	if e.Hit.EV() > e.Stand.EV() {
		return "hit"
	}
	return "stand"
}

func (e Estimate) String() string {
	return fmt.Sprintf("bust on hit %.1f%% | stand W/P/L %.1f/%.1f/%.1f | hit W/P/L %.1f/%.1f/%.1f | advice: %s",
		e.BustOnHit*100,
		e.Stand.Win*100, e.Stand.Push*100, e.Stand.Loss*100,
		e.Hit.Win*100, e.Hit.Push*100, e.Hit.Loss*100,
		e.Advice())
}

// workerResult holds the tallies from a Monte Carlo worker
type workerResult struct {
	samples int
	busts   int
	stand   tally
	hit     tally
}

type tally struct {
	wins, pushes, losses int
}

func (t *tally) add(o game.Outcome) {
	switch o {
	case game.Win:
		t.wins++
	case game.Draw:
		t.pushes++
	default:
		t.losses++
	}
}

func (t tally) outcomes(n int) Outcomes {
	if n == 0 {
		return Outcomes{}
	}
	return Outcomes{
		Win:  float64(t.wins) / float64(n),
		Push: float64(t.pushes) / float64(n),
		Loss: float64(t.losses) / float64(n),
	}
}

// Run estimates the situation with numSamples simulated deals spread over
// parallel workers. Each worker gets its own RNG seeded from rng, so a given
// seed always produces the same estimate.
func Run(ctx context.Context, sit Situation, numSamples int, rng *rand.Rand) (Estimate, error) {
	if numSamples <= 0 {
		return Estimate{}, ErrNoSamples
	}
	if len(sit.Unseen) < 2 {
		return Estimate{}, fmt.Errorf("%d unseen cards: %w", len(sit.Unseen), ErrNotEnoughCards)
	}

	workers := min(runtime.NumCPU(), 8, numSamples)
	samplesPerWorker := numSamples / workers
	remainder := numSamples % workers

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan workerResult, workers)

	for w := range workers {
		workerSamples := samplesPerWorker
		if w < remainder {
			workerSamples++
		}
		workerSeed := rng.Int64()

		g.Go(func() error {
			result, err := runWorker(ctx, sit, workerSamples, randutil.New(workerSeed))
			if err != nil {
				return err
			}
			select {
			case results <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	var total workerResult
	for r := range results {
		total.samples += r.samples
		total.busts += r.busts
		total.stand.wins += r.stand.wins
		total.stand.pushes += r.stand.pushes
		total.stand.losses += r.stand.losses
		total.hit.wins += r.hit.wins
		total.hit.pushes += r.hit.pushes
		total.hit.losses += r.hit.losses
	}

	if err := g.Wait(); err != nil {
		return Estimate{}, err
	}
	if total.samples == 0 {
		return Estimate{}, ErrNotEnoughCards
	}

	return Estimate{
		Samples:   total.samples,
		BustOnHit: float64(total.busts) / float64(total.samples),
		Stand:     total.stand.outcomes(total.samples),
		Hit:       total.hit.outcomes(total.samples),
	}, nil
}

// runWorker plays out numSamples deals. Both lines of play in a sample share
// the same hole card; the dealer's further draws are sampled independently.
func runWorker(ctx context.Context, sit Situation, numSamples int, rng *rand.Rand) (workerResult, error) {
	var result workerResult
	pool := newDrawPool(sit.Unseen, rng)

	player := make([]deck.Card, len(sit.Player), len(sit.Player)+1)
	copy(player, sit.Player)
	dealer := make([]deck.Card, 0, 12)

	for i := range numSamples {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}

		pool.reset()
		hole, ok := pool.draw()
		if !ok {
			continue
		}
		hitCard, ok := pool.draw()
		if !ok {
			continue
		}
		mark := pool.drawn

		// stand now
		dealer = append(dealer[:0], sit.DealerUp, hole)
		dealer, ok = playDealer(dealer, pool)
		if !ok {
			continue
		}
		standResult := game.Settle(player, dealer, 1)

		// hit once then stand
		pool.drawn = mark
		hitHand := append(player[:len(sit.Player)], hitCard)
		dealer = append(dealer[:0], sit.DealerUp, hole)
		dealer, ok = playDealer(dealer, pool)
		if !ok {
			continue
		}
		hitResult := game.Settle(hitHand, dealer, 1)

		result.samples++
		result.stand.add(standResult.Outcome)
		result.hit.add(hitResult.Outcome)
		if evaluator.IsBust(hitHand) {
			result.busts++
		}
	}
	return result, nil
}

func playDealer(dealer []deck.Card, pool *drawPool) ([]deck.Card, bool) {
	for evaluator.Evaluate(dealer).Total < game.DealerStandsOn {
		card, ok := pool.draw()
		if !ok {
			return dealer, false
		}
		dealer = append(dealer, card)
	}
	return dealer, true
}

// drawPool samples without replacement using a partial Fisher-Yates shuffle.
// reset makes every card available again without reallocating.
type drawPool struct {
	cards []deck.Card
	drawn int
	rng   *rand.Rand
}

func newDrawPool(cards []deck.Card, rng *rand.Rand) *drawPool {
	c := make([]deck.Card, len(cards))
	copy(c, cards)
	return &drawPool{cards: c, rng: rng}
}

func (p *drawPool) reset() { p.drawn = 0 }

func (p *drawPool) draw() (deck.Card, bool) {
	if p.drawn >= len(p.cards) {
		return deck.Card{}, false
	}
	idx := p.drawn + p.rng.IntN(len(p.cards)-p.drawn)
	p.cards[p.drawn], p.cards[idx] = p.cards[idx], p.cards[p.drawn]
	card := p.cards[p.drawn]
	p.drawn++
	return card, true
}
