package postgres

import (
	"time"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/tournament"
)

// editionTableModel carries the tournament attributes resolved at
// insert time, so historical snapshots survive tournament renames.
type editionTableModel struct {
	ID            int64     `db:"id"`
	TournamentID  int64     `db:"tournament_id"`
	Year          int32     `db:"year"`
	DrawSize      int32     `db:"draw_size"`
	DateBegin     time.Time `db:"date_begin"`
	DateEnd       time.Time `db:"date_end"`
	OnTwoWeeks    bool      `db:"on_two_weeks"`
	Name          string    `db:"name"`
	City          string    `db:"city"`
	Level         int16     `db:"level"`
	Surface       int16     `db:"surface"`
	Indoor        bool      `db:"indoor"`
	SlotOrder     int16     `db:"slot_order"`
	StatsComputed bool      `db:"stats_computed"`
}

type editionStatTableModel struct {
	EditionID int64  `db:"edition_id"`
	PlayerID  int64  `db:"player_id"`
	StatType  string `db:"stat_type"`
	Value     int64  `db:"value"`
}

func editionFromRow(row editionTableModel) edition.Edition {
	return edition.Edition{
		ID:           uint32(row.ID),
		TournamentID: uint32(row.TournamentID),
		Year:         uint16(row.Year),
		DrawSize:     uint16(row.DrawSize),
		DateBegin:    row.DateBegin,
		DateEnd:      row.DateEnd,
		OnTwoWeeks:   row.OnTwoWeeks,

		TournamentName:      row.Name,
		TournamentCity:      row.City,
		TournamentLevel:     tournament.Level(row.Level),
		TournamentSurface:   tournament.Surface(row.Surface),
		TournamentIsIndoor:  row.Indoor,
		TournamentSlotOrder: uint8(row.SlotOrder),
	}
}

func editionToRow(e edition.Edition) editionTableModel {
	return editionTableModel{
		ID:           int64(e.ID),
		TournamentID: int64(e.TournamentID),
		Year:         int32(e.Year),
		DrawSize:     int32(e.DrawSize),
		DateBegin:    e.DateBegin,
		DateEnd:      e.DateEnd,
		OnTwoWeeks:   e.OnTwoWeeks,
		Name:         e.TournamentName,
		City:         e.TournamentCity,
		Level:        int16(e.TournamentLevel),
		Surface:      int16(e.TournamentSurface),
		Indoor:       e.TournamentIsIndoor,
		SlotOrder:    int16(e.TournamentSlotOrder),
	}
}
