// Package scale holds the ATP points distribution per competition
// level and round.
package scale

import (
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/tournament"
)

// Row is the points attribution for one (level, round) pair.
// LoserExemptPoints replaces LoserPoints when the loser skipped the
// previous round. Cumulative rows stack with earlier rounds; on
// non-cumulative rows only the best result counts.
type Row struct {
	Level             tournament.Level
	Round             match.Round
	WinnerPoints      uint32
	LoserPoints       uint32
	LoserExemptPoints uint32
	Cumulative        bool
}

// Table is an immutable points scale.
type Table struct {
	rows []Row
}

func NewTable(rows []Row) *Table {
	return &Table{rows: append([]Row(nil), rows...)}
}

// LevelScale returns the rows of a level, narrowed to one round when
// round is non-nil. An empty selection yields a synthesized zero-point
// non-cumulative placeholder so lookups never fail; the placeholder
// sits at R128 when no round was asked for.
func (t *Table) LevelScale(level tournament.Level, round *match.Round) []Row {
	var out []Row
	for _, row := range t.rows {
		if row.Level == level && (round == nil || row.Round == *round) {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		r := match.RoundR128
		if round != nil {
			r = *round
		}
		out = append(out, Row{Level: level, Round: r})
	}
	return out
}

// MatchPoints returns the points m is worth for playerID at the given
// level. Anomalies degrade to zero instead of failing, since this
// feeds bulk statistics generation.
func (t *Table) MatchPoints(m *match.Match, level tournament.Level, playerID uint64, wasExempt bool) uint32 {
	if m == nil || playerID == 0 {
		return 0
	}

	round := m.Round
	row := t.LevelScale(level, &round)[0]

	switch playerID {
	case m.Winner.PlayerID:
		return row.WinnerPoints
	case m.Loser.PlayerID:
		if wasExempt {
			return row.LoserExemptPoints
		}
		return row.LoserPoints
	}
	return 0
}
