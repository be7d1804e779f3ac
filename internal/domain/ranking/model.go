package ranking

import "fmt"

// DefaultElo is the rating assigned to players without any stored
// history.
const DefaultElo uint16 = 2500

// Scope selects one of the two points rankings.
type Scope uint8

const (
	// ScopeCalendar ranks cumulative points since January 1st.
	ScopeCalendar Scope = iota
	// ScopeRolling ranks cumulative points over the trailing 52/53
	// ranking weeks.
	ScopeRolling
)

func (s Scope) String() string {
	switch s {
	case ScopeCalendar:
		return "calendar"
	case ScopeRolling:
		return "rolling"
	default:
		return fmt.Sprintf("scope(%d)", uint8(s))
	}
}

// Entry is one player's ranking row for one week. The tournament-id
// lists record which editions contributed to each points figure; the
// rolling list drives the year-boundary deduplication and the rank
// tie-break.
type Entry struct {
	PlayerID uint64
	Year     uint16
	Week     uint8

	WeekPoints     uint32
	CalendarPoints uint32
	RollingPoints  uint32

	CalendarRank uint16
	RollingRank  uint16
	Elo          uint16

	TournamentIDs         []uint32
	CalendarTournamentIDs []uint32
	RollingTournamentIDs  []uint32
}

func (e Entry) Validate() error {
	if e.PlayerID == 0 {
		return fmt.Errorf("ranking entry player id is required")
	}
	if e.Year == 0 {
		return fmt.Errorf("ranking entry year is required")
	}
	if e.Week < 1 || e.Week > 53 {
		return fmt.Errorf("ranking entry week %d out of range", e.Week)
	}
	return nil
}

// Points returns the cumulative points for the scope.
func (e Entry) Points(scope Scope) uint32 {
	if scope == ScopeRolling {
		return e.RollingPoints
	}
	return e.CalendarPoints
}

// Tournaments returns the contributing tournament ids for the scope.
func (e Entry) Tournaments(scope Scope) []uint32 {
	if scope == ScopeRolling {
		return e.RollingTournamentIDs
	}
	return e.CalendarTournamentIDs
}
