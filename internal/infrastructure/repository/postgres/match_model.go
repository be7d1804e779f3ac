package postgres

import (
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/openera/rankings/internal/domain/match"
)

type matchTableModel struct {
	ID         int64  `db:"id"`
	EditionID  int64  `db:"edition_id"`
	MatchNum   int32  `db:"match_num"`
	Round      int16  `db:"round"`
	BestOf     int16  `db:"best_of"`
	Minutes    *int64 `db:"minutes"`
	Unfinished bool   `db:"unfinished"`
	Retirement bool   `db:"retirement"`
	Walkover   bool   `db:"walkover"`

	WinnerID         int64   `db:"winner_id"`
	WinnerEntry      string  `db:"winner_entry"`
	WinnerRank       *int64  `db:"winner_rank"`
	WinnerRankPoints *int64  `db:"winner_rank_points"`
	LoserID          int64   `db:"loser_id"`
	LoserEntry       string  `db:"loser_entry"`
	LoserRank        *int64  `db:"loser_rank"`
	LoserRankPoints  *int64  `db:"loser_rank_points"`

	WinnerStats string `db:"winner_stats"`
	LoserStats  string `db:"loser_stats"`
	Sets        string `db:"sets"`
}

// setDocument stores a set relative to the match winner, the same
// orientation AddSetByNumber consumes, so a reload re-derives the set
// winner, the tiebreak score and the validity flag.
type setDocument struct {
	Number      int     `json:"number"`
	WinnerGames uint8   `json:"winner_games"`
	LoserGames  uint8   `json:"loser_games"`
	TieBreak    *uint16 `json:"tie_break,omitempty"`
}

type sideStatsDocument struct {
	Aces             *uint32 `json:"aces,omitempty"`
	DoubleFaults     *uint32 `json:"double_faults,omitempty"`
	ServePoints      *uint32 `json:"serve_points,omitempty"`
	FirstServesIn    *uint32 `json:"first_serves_in,omitempty"`
	FirstServesWon   *uint32 `json:"first_serves_won,omitempty"`
	SecondServesWon  *uint32 `json:"second_serves_won,omitempty"`
	ServeGames       *uint32 `json:"serve_games,omitempty"`
	BreakPointsSaved *uint32 `json:"bp_saved,omitempty"`
	BreakPointsFaced *uint32 `json:"bp_faced,omitempty"`
}

func matchToRow(m *match.Match) (matchTableModel, error) {
	row := matchTableModel{
		ID:         int64(m.ID),
		EditionID:  int64(m.EditionID),
		MatchNum:   int32(m.MatchNum),
		Round:      int16(m.Round),
		BestOf:     int16(m.BestOf),
		Unfinished: m.Unfinished,
		Retirement: m.Retirement,
		Walkover:   m.Walkover,

		WinnerID:         int64(m.Winner.PlayerID),
		WinnerEntry:      m.Winner.Entry,
		WinnerRank:       uint32PtrToInt64(m.Winner.Rank),
		WinnerRankPoints: uint32PtrToInt64(m.Winner.RankPoints),
		LoserID:          int64(m.Loser.PlayerID),
		LoserEntry:       m.Loser.Entry,
		LoserRank:        uint32PtrToInt64(m.Loser.Rank),
		LoserRankPoints:  uint32PtrToInt64(m.Loser.RankPoints),
	}
	if m.Minutes > 0 {
		minutes := int64(m.Minutes)
		row.Minutes = &minutes
	}

	var err error
	if row.Sets, err = encodeSets(m); err != nil {
		return matchTableModel{}, fmt.Errorf("encode sets of match %d: %w", m.ID, err)
	}
	if row.WinnerStats, err = encodeSideStats(m.WinnerStats); err != nil {
		return matchTableModel{}, fmt.Errorf("encode winner stats of match %d: %w", m.ID, err)
	}
	if row.LoserStats, err = encodeSideStats(m.LoserStats); err != nil {
		return matchTableModel{}, fmt.Errorf("encode loser stats of match %d: %w", m.ID, err)
	}
	return row, nil
}

func matchFromRow(row matchTableModel) (*match.Match, error) {
	var minutes *uint32
	if row.Minutes != nil {
		v := uint32(*row.Minutes)
		minutes = &v
	}

	winner := match.Side{
		PlayerID: uint64(row.WinnerID),
		Entry:    row.WinnerEntry,
		Rank:     int64PtrToUint32(row.WinnerRank),
		// New shifts the seed into the rank points slot, which is the
		// shape the row already has.
		Seed: int64PtrToUint32(row.WinnerRankPoints),
	}
	loser := match.Side{
		PlayerID: uint64(row.LoserID),
		Entry:    row.LoserEntry,
		Rank:     int64PtrToUint32(row.LoserRank),
		Seed:     int64PtrToUint32(row.LoserRankPoints),
	}

	m, err := match.New(
		uint64(row.ID),
		uint32(row.EditionID),
		uint16(row.MatchNum),
		match.Round(row.Round),
		uint8(row.BestOf),
		minutes,
		row.Unfinished,
		row.Retirement,
		row.Walkover,
		winner,
		loser,
	)
	if err != nil {
		return nil, fmt.Errorf("map match %d: %w", row.ID, err)
	}

	if err := decodeSets(m, row.Sets); err != nil {
		return nil, fmt.Errorf("decode sets of match %d: %w", row.ID, err)
	}
	winnerStats, err := decodeSideStats(row.WinnerStats)
	if err != nil {
		return nil, fmt.Errorf("decode winner stats of match %d: %w", row.ID, err)
	}
	loserStats, err := decodeSideStats(row.LoserStats)
	if err != nil {
		return nil, fmt.Errorf("decode loser stats of match %d: %w", row.ID, err)
	}
	m.SetStatistics(winnerStats, loserStats)
	return m, nil
}

func encodeSets(m *match.Match) (string, error) {
	docs := make([]setDocument, 0, 5)
	for i, rec := range m.Sets() {
		if rec == nil {
			continue
		}
		doc := setDocument{Number: i + 1}
		if rec.WonBy == m.Winner.PlayerID {
			doc.WinnerGames = rec.Set.WinnerGames
			doc.LoserGames = rec.Set.LoserGames
		} else {
			doc.WinnerGames = rec.Set.LoserGames
			doc.LoserGames = rec.Set.WinnerGames
		}
		if rec.Set.IsTieBreak() {
			tb := rec.Set.LoserTieBreak
			doc.TieBreak = &tb
		}
		docs = append(docs, doc)
	}
	encoded, err := sonic.Marshal(docs)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeSets(m *match.Match, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}
	var docs []setDocument
	if err := sonic.Unmarshal([]byte(raw), &docs); err != nil {
		return err
	}
	for _, doc := range docs {
		wg, lg := doc.WinnerGames, doc.LoserGames
		if err := m.AddSetByNumber(doc.Number, &wg, &lg, doc.TieBreak); err != nil {
			return err
		}
	}
	return nil
}

func encodeSideStats(stats match.SideStats) (string, error) {
	doc := sideStatsDocument{
		Aces:             stats.Aces,
		DoubleFaults:     stats.DoubleFaults,
		ServePoints:      stats.ServePoints,
		FirstServesIn:    stats.FirstServesIn,
		FirstServesWon:   stats.FirstServesWon,
		SecondServesWon:  stats.SecondServesWon,
		ServeGames:       stats.ServeGames,
		BreakPointsSaved: stats.BreakPointsSaved,
		BreakPointsFaced: stats.BreakPointsFaced,
	}
	encoded, err := sonic.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeSideStats(raw string) (match.SideStats, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return match.SideStats{}, nil
	}
	var doc sideStatsDocument
	if err := sonic.Unmarshal([]byte(raw), &doc); err != nil {
		return match.SideStats{}, err
	}
	return match.SideStats{
		Aces:             doc.Aces,
		DoubleFaults:     doc.DoubleFaults,
		ServePoints:      doc.ServePoints,
		FirstServesIn:    doc.FirstServesIn,
		FirstServesWon:   doc.FirstServesWon,
		SecondServesWon:  doc.SecondServesWon,
		ServeGames:       doc.ServeGames,
		BreakPointsSaved: doc.BreakPointsSaved,
		BreakPointsFaced: doc.BreakPointsFaced,
	}, nil
}

func uint32PtrToInt64(v *uint32) *int64 {
	if v == nil {
		return nil
	}
	out := int64(*v)
	return &out
}

func int64PtrToUint32(v *int64) *uint32 {
	if v == nil {
		return nil
	}
	out := uint32(*v)
	return &out
}
