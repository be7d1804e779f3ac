package match

import (
	"fmt"

	"github.com/openera/rankings/internal/domain/player"
)

// Side is one participant of a match with the tournament context the
// source rows carry for them.
type Side struct {
	PlayerID   uint64
	Seed       *uint32
	Entry      string
	Rank       *uint32
	RankPoints *uint32
}

// SideStats are the per-side serve and return counters. Nil means the
// value was not recorded.
type SideStats struct {
	Aces             *uint32
	DoubleFaults     *uint32
	ServePoints      *uint32
	FirstServesIn    *uint32
	FirstServesWon   *uint32
	SecondServesWon  *uint32
	ServeGames       *uint32
	BreakPointsSaved *uint32
	BreakPointsFaced *uint32
}

// SetRecord couples a set with the player who won it. Interrupted sets
// are credited to the match winner.
type SetRecord struct {
	WonBy uint64
	Set   Set
}

// Match is one completed (or abandoned) match of an edition.
type Match struct {
	ID         uint64
	EditionID  uint32
	MatchNum   uint16
	Round      Round
	BestOf     uint8
	Minutes    uint32
	Unfinished bool
	Retirement bool
	Walkover   bool

	Winner      Side
	Loser       Side
	WinnerStats SideStats
	LoserStats  SideStats

	sets [5]*SetRecord
}

// New builds a Match. Referential checks (edition, players,
// match-number uniqueness) belong to the repository insert path.
func New(id uint64, editionID uint32, matchNum uint16, round Round, bestOf uint8, minutes *uint32, unfinished, retirement, walkover bool, winner, loser Side) (*Match, error) {
	if id == 0 {
		return nil, fmt.Errorf("match id is required")
	}
	if editionID == 0 {
		return nil, fmt.Errorf("match edition id is required")
	}
	if !round.Valid() {
		return nil, fmt.Errorf("invalid round: %d", round)
	}
	if bestOf != 3 && bestOf != 5 {
		return nil, fmt.Errorf("best-of must be 3 or 5, got %d", bestOf)
	}
	if winner.PlayerID == loser.PlayerID && winner.PlayerID != player.UnknownID {
		return nil, fmt.Errorf("winner and loser cannot be the same player")
	}

	m := &Match{
		ID:         id,
		EditionID:  editionID,
		MatchNum:   matchNum,
		Round:      round,
		BestOf:     bestOf,
		Unfinished: unfinished,
		Retirement: retirement,
		Walkover:   walkover,
		Winner:     winner,
		Loser:      loser,
	}
	if minutes != nil {
		m.Minutes = *minutes
	}

	// The persisted dataset ships the seed in the rank points column
	// and leaves the seed column empty; downstream readers expect
	// that shape.
	m.Winner.RankPoints = winner.Seed
	m.Winner.Seed = nil
	m.Loser.RankPoints = loser.Seed
	m.Loser.Seed = nil

	return m, nil
}

// SetStatistics records the per-side serve counters.
func (m *Match) SetStatistics(winnerStats, loserStats SideStats) {
	m.WinnerStats = winnerStats
	m.LoserStats = loserStats
}

// AddSetByNumber records set setNumber (1..5). A nil score on either
// side clears the slot. A winner score below the loser score means the
// match loser took the set; the stored scores stay relative to the set
// winner.
func (m *Match) AddSetByNumber(setNumber int, wScore, lScore *uint8, tieBreak *uint16) error {
	if setNumber < 1 || setNumber > 5 || (setNumber > int(m.BestOf) && (wScore != nil || lScore != nil || tieBreak != nil)) {
		return fmt.Errorf("invalid set number %d", setNumber)
	}

	if wScore == nil || lScore == nil {
		m.sets[setNumber-1] = nil
		return nil
	}

	wonBy := m.Winner.PlayerID
	hi, lo := *wScore, *lScore
	if hi < lo {
		wonBy = m.Loser.PlayerID
		hi, lo = lo, hi
	}

	m.sets[setNumber-1] = &SetRecord{
		WonBy: wonBy,
		Set:   newSet(hi, lo, tieBreak, m.Unfinished || m.Retirement),
	}
	return nil
}

// Sets returns the chronological set slots. Unplayed slots are nil.
func (m *Match) Sets() [5]*SetRecord {
	return m.sets
}

// CountGames sums the games of every recorded set.
func (m *Match) CountGames() int {
	total := 0
	for _, rec := range m.sets {
		if rec != nil {
			total += int(rec.Set.WinnerGames) + int(rec.Set.LoserGames)
		}
	}
	return total
}

// HasPlayer reports whether playerID took part in the match.
func (m *Match) HasPlayer(playerID uint64) bool {
	return m.Winner.PlayerID == playerID || m.Loser.PlayerID == playerID
}

// Won reports whether playerID is the match winner.
func (m *Match) Won(playerID uint64) bool {
	return m.Winner.PlayerID == playerID
}
