// Package game implements the blackjack round engine: a single player
// against a dealer who draws to 17.
//
// The main type is Session, which owns the shoe, the player's chip account
// and the current round. A renderer drives it with Intents and reads plain
// snapshots back; nothing in this package draws to a screen.
//
// # Basic Usage
//
//	s := game.NewSession(randutil.New(42), game.WithDecks(4))
//	if err := s.Dispatch(game.PlaceBet{Amount: 50}); err != nil {
//	    // game.WarningFor(err) gives a code for the UI
//	}
//	s.Dispatch(game.Hit{})
//	s.Dispatch(game.Stand{})
//	fmt.Println(s.Message()) // "Dealer busts with 24. You win $50."
//	s.Dispatch(game.NewRound{})
//
// # Round Phases
//
// Betting → Dealing → PlayerActing → DealerActing → Settling → RoundOver.
// Dealing, DealerActing and Settling need no input and run to completion
// inside the call that enters them, so a caller only ever observes Betting,
// PlayerActing and RoundOver.
//
// # Deterministic Testing
//
// Use deck.NewStackedShoe to fix the deal order (player, dealer, player,
// dealer hole card, then draws) and quartz.NewMock for event timestamps:
//
//	shoe := deck.NewStackedShoe(rng, deck.MustParseCards("AsKd9hQc")...)
//	s := game.NewSession(rng, game.WithShoe(shoe), game.WithClock(quartz.NewMock(t)))
//
// # Events
//
// Every state change is published on an EventBus (round start, cards dealt,
// player actions, dealer reveal, round end, chip purchases, reshuffles).
// RoundHistory and statistics.Collector are subscribers, as is the TUI log.
package game
