package deck

import (
	rand "math/rand/v2"
)

// DefaultDecks is the number of 52-card decks in a shoe when none is configured
const DefaultDecks = 1

// Shoe is the live pool of cards dealt from, built from one or more decks.
// A dealt card leaves the shoe and is not seen again until the shoe is
// rebuilt. The shoe rebuilds and reshuffles itself when it runs dry, so Draw
// never fails.
type Shoe struct {
	decks    int
	cards    []Card
	rng      *rand.Rand
	shuffles int
}

// NewShoe creates a shuffled shoe of n standard decks. n < 1 is treated as one deck.
func NewShoe(n int, rng *rand.Rand) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if n < 1 {
		n = DefaultDecks
	}
	s := &Shoe{decks: n, rng: rng}
	s.rebuild()
	return s
}

// NewStackedShoe creates a shoe that deals the given cards in order. Once the
// stacked cards are exhausted it behaves like a normal single-deck shoe.
// Intended for deterministic tests.
func NewStackedShoe(rng *rand.Rand, cards ...Card) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{decks: DefaultDecks, cards: stacked, rng: rng}
}

// Shuffle randomizes the order of the remaining cards
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Draw removes and returns the top card, rebuilding the shoe first if it is empty
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.rebuild()
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card
}

// Remaining returns the number of cards left before the next rebuild
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Unseen returns a copy of the cards still in the shoe
func (s *Shoe) Unseen() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Decks returns the number of decks the shoe is rebuilt from
func (s *Shoe) Decks() int {
	return s.decks
}

// Shuffles returns how many times the shoe has been rebuilt
func (s *Shoe) Shuffles() int {
	return s.shuffles
}

func (s *Shoe) rebuild() {
	s.cards = s.cards[:0]
	for range s.decks {
		s.cards = append(s.cards, StandardDeck()...)
	}
	s.Shuffle()
	s.shuffles++
}
