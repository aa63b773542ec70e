package game

// Phase is the position of a round in the state machine
type Phase int

const (
	Betting Phase = iota
	Dealing
	PlayerActing
	DealerActing
	Settling
	RoundOver
)

func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case Dealing:
		return "dealing"
	case PlayerActing:
		return "player acting"
	case DealerActing:
		return "dealer acting"
	case Settling:
		return "settling"
	case RoundOver:
		return "round over"
	default:
		return "unknown"
	}
}

// HoleCardHidden reports whether the dealer's second card is still face down
func (p Phase) HoleCardHidden() bool {
	return p == Dealing || p == PlayerActing
}
