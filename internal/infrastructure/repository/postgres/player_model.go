package postgres

import "time"

type playerTableModel struct {
	ID            int64      `db:"id"`
	FirstName     string     `db:"first_name"`
	LastName      string     `db:"last_name"`
	Nationality   string     `db:"nationality"`
	Hand          int16      `db:"hand"`
	Height        int32      `db:"height"`
	DateOfBirth   *time.Time `db:"date_of_birth"`
	ActivityBegin time.Time  `db:"activity_begin"`
	ActivityEnd   time.Time  `db:"activity_end"`
}

type nationalityHistoryTableModel struct {
	PlayerID    int64     `db:"player_id"`
	Nationality string    `db:"nationality"`
	EndDate     time.Time `db:"end_date"`
}
