package edition

import (
	"fmt"
	"time"

	"github.com/openera/rankings/internal/domain/tournament"
)

// TwoWeeksMinMatchCount is the match count from which an edition is
// considered to span two weeks.
const TwoWeeksMinMatchCount = 65

// StatType names a per-player per-edition counter.
type StatType string

const (
	StatRound           StatType = "round"
	StatIsWinner        StatType = "is_winner"
	StatPoints          StatType = "points"
	StatMatchWin        StatType = "match_win"
	StatMatchLost       StatType = "match_lost"
	StatSetWin          StatType = "set_win"
	StatSetLost         StatType = "set_lost"
	StatGameWin         StatType = "game_win"
	StatGameLost        StatType = "game_lost"
	StatTieBreakWin     StatType = "tb_win"
	StatTieBreakLost    StatType = "tb_lost"
	StatAce             StatType = "ace"
	StatDoubleFault     StatType = "d_f"
	StatServePoints     StatType = "sv_pt"
	StatFirstServeIn    StatType = "first_in"
	StatFirstServeWon   StatType = "first_won"
	StatSecondServeWon  StatType = "second_won"
	StatServeGames      StatType = "sv_gms"
	StatBreakPointSaved StatType = "bp_saved"
	StatBreakPointFaced StatType = "bp_faced"
)

// AllStatTypes lists every counter in persistence column order.
var AllStatTypes = []StatType{
	StatRound, StatIsWinner, StatPoints,
	StatMatchWin, StatMatchLost,
	StatSetWin, StatSetLost,
	StatGameWin, StatGameLost,
	StatTieBreakWin, StatTieBreakLost,
	StatAce, StatDoubleFault, StatServePoints,
	StatFirstServeIn, StatFirstServeWon, StatSecondServeWon,
	StatServeGames, StatBreakPointSaved, StatBreakPointFaced,
}

// Stat is one computed counter for one player at one edition.
type Stat struct {
	PlayerID uint64
	Type     StatType
	Value    uint32
}

// Snapshot carries the tournament attributes as they were when the
// edition was played. Nil fields fall back to the tournament's current
// values, which lets retired names, surface switches and calendar
// moves keep their historical shape.
type Snapshot struct {
	Name      *string
	City      *string
	Level     *tournament.Level
	Surface   *tournament.Surface
	Indoor    *bool
	SlotOrder *uint8
}

// Edition is one year's running of a tournament.
type Edition struct {
	ID           uint32
	TournamentID uint32
	Year         uint16
	DrawSize     uint16
	DateBegin    time.Time
	DateEnd      time.Time
	OnTwoWeeks   bool

	// Resolved tournament attributes, snapshot-first.
	TournamentName      string
	TournamentCity      string
	TournamentLevel     tournament.Level
	TournamentSurface   tournament.Surface
	TournamentIsIndoor  bool
	TournamentSlotOrder uint8
}

// New builds an Edition, resolving snapshot fallbacks against t, which
// must be the tournament the edition belongs to.
func New(id uint32, t tournament.Tournament, year uint16, drawSize uint16, dateBegin, dateEnd time.Time, onTwoWeeks bool, snap Snapshot) (Edition, error) {
	e := Edition{
		ID:           id,
		TournamentID: t.ID,
		Year:         year,
		DrawSize:     drawSize,
		DateBegin:    dateBegin,
		DateEnd:      dateEnd,
		OnTwoWeeks:   onTwoWeeks,

		TournamentName:      t.Name,
		TournamentCity:      t.City,
		TournamentLevel:     t.Level,
		TournamentSurface:   t.Surface,
		TournamentIsIndoor:  t.Indoor,
		TournamentSlotOrder: t.SlotOrder,
	}
	if snap.Name != nil {
		e.TournamentName = *snap.Name
	}
	if snap.City != nil {
		e.TournamentCity = *snap.City
	}
	if snap.Level != nil {
		e.TournamentLevel = *snap.Level
	}
	if snap.Surface != nil {
		e.TournamentSurface = *snap.Surface
	}
	if snap.Indoor != nil {
		e.TournamentIsIndoor = *snap.Indoor
	}
	if snap.SlotOrder != nil {
		e.TournamentSlotOrder = *snap.SlotOrder
	}
	if err := e.Validate(); err != nil {
		return Edition{}, err
	}
	return e, nil
}

func (e Edition) Validate() error {
	if e.ID == 0 {
		return fmt.Errorf("edition id is required")
	}
	if e.TournamentID == 0 {
		return fmt.Errorf("edition tournament id is required")
	}
	if e.Year == 0 {
		return fmt.Errorf("edition year is required")
	}
	if e.DateEnd.Before(e.DateBegin) {
		return fmt.Errorf("edition end date precedes begin date")
	}
	if !e.TournamentLevel.Valid() {
		return fmt.Errorf("invalid edition level: %d", e.TournamentLevel)
	}
	if !e.TournamentSurface.Valid() {
		return fmt.Errorf("invalid edition surface: %d", e.TournamentSurface)
	}
	return nil
}
