package match

// Set is one played set, scored from the set winner's perspective.
type Set struct {
	WinnerGames    uint8
	LoserGames     uint8
	WinnerTieBreak uint16
	LoserTieBreak  uint16
	Interrupted    bool

	// InvalidData marks sets whose recorded score breaks tennis
	// scoring rules. The set is kept; aggregations may still read it.
	InvalidData bool
}

// newSet validates the score unless the set was interrupted, in which
// case the recorded numbers are stored as-is.
func newSet(winnerGames, loserGames uint8, loserTieBreak *uint16, interrupted bool) Set {
	s := Set{
		WinnerGames: winnerGames,
		LoserGames:  loserGames,
		Interrupted: interrupted,
	}
	if interrupted {
		return s
	}

	if winnerGames < 6 {
		s.InvalidData = true
	}
	if loserGames >= winnerGames {
		s.InvalidData = true
	}
	if winnerGames > 6 && winnerGames-loserGames > 2 {
		s.InvalidData = true
	}

	if winnerGames == 7 && loserGames == 6 {
		if loserTieBreak == nil {
			s.InvalidData = true
		} else {
			if *loserTieBreak < 5 {
				s.WinnerTieBreak = 7
			} else {
				s.WinnerTieBreak = *loserTieBreak + 2
			}
			s.LoserTieBreak = *loserTieBreak
		}
	} else if loserTieBreak != nil {
		s.InvalidData = true
	}

	return s
}

// IsTieBreak reports whether the set went to a tiebreak.
func (s Set) IsTieBreak() bool {
	return s.WinnerTieBreak > 0
}
