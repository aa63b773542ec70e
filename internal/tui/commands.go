package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/game"
)

// command is a parsed line from the input box. Exactly one of intent or
// local is set; local commands only affect the UI.
type command struct {
	intent game.Intent
	local  string
}

const (
	cmdOdds    = "odds"
	cmdHistory = "history"
	cmdHelp    = "help"
	cmdQuit    = "quit"
	cmdEnter   = "enter"
)

// parseCommand converts user input to a command. Amounts are validated as
// whole numbers here; range checks are left to the session.
func parseCommand(input string, defaultBet, topUpAmount int) (command, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return command{local: cmdEnter}, nil
	}

	action, args := parts[0], parts[1:]

	// a bare number is a bet
	if n, err := strconv.Atoi(action); err == nil {
		return command{intent: game.PlaceBet{Amount: n}}, nil
	}

	switch action {
	case "b", "bet":
		amount, err := amountArg(args, defaultBet)
		if err != nil {
			return command{}, err
		}
		return command{intent: game.PlaceBet{Amount: amount}}, nil
	case "h", "hit":
		return command{intent: game.Hit{}}, nil
	case "s", "stand":
		return command{intent: game.Stand{}}, nil
	case "d", "double":
		return command{intent: game.Double{}}, nil
	case "n", "new", "deal":
		return command{intent: game.NewRound{}}, nil
	case "a", "add", "buy":
		amount, err := amountArg(args, topUpAmount)
		if err != nil {
			return command{}, err
		}
		return command{intent: game.AddChips{Amount: amount}}, nil
	case "o", "odds", "?":
		return command{local: cmdOdds}, nil
	case "history":
		return command{local: cmdHistory}, nil
	case "help":
		return command{local: cmdHelp}, nil
	case "q", "quit", "exit":
		return command{local: cmdQuit}, nil
	default:
		return command{}, fmt.Errorf("unknown command: %s", action)
	}
}

func amountArg(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	amount, err := strconv.Atoi(strings.TrimPrefix(args[0], "$"))
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %s", args[0])
	}
	return amount, nil
}

// formatValidIntents creates a human-readable list of what can be typed now
func formatValidIntents(kinds []game.IntentKind) string {
	if len(kinds) == 0 {
		return "none"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
