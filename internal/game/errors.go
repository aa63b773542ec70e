package game

import "errors"

// Errors returned when an intent is rejected. All of them are recoverable:
// the round is left exactly as it was and the player may try again.
var (
	ErrInvalidBet        = errors.New("invalid bet")
	ErrIllegalAction     = errors.New("illegal action")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrTopUpNotAllowed   = errors.New("top-up not allowed")
	ErrAlreadySettled    = errors.New("round already settled")
)

// WarningCode is a stable identifier the renderer can map to a message or style
type WarningCode string

const (
	WarningNone              WarningCode = ""
	WarningInvalidBet        WarningCode = "invalid_bet"
	WarningIllegalAction     WarningCode = "illegal_action"
	WarningInsufficientChips WarningCode = "insufficient_chips"
	WarningTopUpDenied       WarningCode = "top_up_denied"
	WarningUnknown           WarningCode = "unknown"
)

// WarningFor maps an error returned by Session to its warning code
func WarningFor(err error) WarningCode {
	switch {
	case err == nil:
		return WarningNone
	case errors.Is(err, ErrInvalidBet):
		return WarningInvalidBet
	case errors.Is(err, ErrInsufficientChips):
		return WarningInsufficientChips
	case errors.Is(err, ErrTopUpNotAllowed):
		return WarningTopUpDenied
	case errors.Is(err, ErrIllegalAction), errors.Is(err, ErrAlreadySettled):
		return WarningIllegalAction
	default:
		return WarningUnknown
	}
}
