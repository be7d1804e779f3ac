package match

import "fmt"

// Round identifies a stage of a draw. Lower values are more important
// stages; sort ordering places the bronze match between the semifinals
// and the final rounds it follows.
type Round uint8

const (
	RoundFinal     Round = 1
	RoundSemifinal Round = 2
	RoundQuarter   Round = 3
	RoundR16       Round = 4
	RoundR32       Round = 5
	RoundR64       Round = 6
	RoundR128      Round = 7
	RoundRobin     Round = 8
	RoundBronze    Round = 9
)

var roundNames = map[Round]string{
	RoundFinal:     "F",
	RoundSemifinal: "SF",
	RoundQuarter:   "QF",
	RoundR16:       "R16",
	RoundR32:       "R32",
	RoundR64:       "R64",
	RoundR128:      "R128",
	RoundRobin:     "RR",
	RoundBronze:    "BR",
}

func (r Round) Valid() bool {
	_, ok := roundNames[r]
	return ok
}

func (r Round) String() string {
	if name, ok := roundNames[r]; ok {
		return name
	}
	return fmt.Sprintf("round(%d)", uint8(r))
}

// SortOrder positions the round on the importance axis. The bronze
// match slots at 1.5, between the final and the semifinals.
func (r Round) SortOrder() float64 {
	if r == RoundBronze {
		return 1.5
	}
	return float64(r)
}

// Before reports whether r is an earlier (less important) stage than
// other.
func (r Round) Before(other Round) bool {
	return other.SortOrder() < r.SortOrder()
}

// Predecessor returns the round played immediately before r. R128 and
// round robin open the draw and have none; the bronze match follows
// the semifinals.
func (r Round) Predecessor() (Round, bool) {
	switch r {
	case RoundR128, RoundRobin:
		return 0, false
	case RoundBronze:
		return RoundSemifinal, true
	default:
		return Round(uint8(r) + 1), true
	}
}
