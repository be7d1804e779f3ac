package player

import (
	"fmt"
	"time"
)

const (
	// UnknownID is the sentinel identity used when a match side could
	// not be attributed to a real player.
	UnknownID uint64 = 199999

	// UnknownNationality is the code recorded for players without a
	// resolvable nationality.
	UnknownNationality = "UNK"
)

// Handedness is the side a player serves with.
type Handedness uint8

const (
	HandUnknown Handedness = 0
	HandRight   Handedness = 1
	HandLeft    Handedness = 2
)

func (h Handedness) Valid() bool {
	return h <= HandLeft
}

func (h Handedness) String() string {
	switch h {
	case HandRight:
		return "right"
	case HandLeft:
		return "left"
	default:
		return "unknown"
	}
}

// NationalityPeriod records a former nationality and the date it
// stopped applying.
type NationalityPeriod struct {
	Code    string
	EndDate time.Time
}

// Player is one athlete in the historical dataset. Height is in
// centimeters with zero meaning unknown. ActivityBegin and ActivityEnd
// are derived from the earliest and latest edition the player appears
// in.
type Player struct {
	ID            uint64
	FirstName     string
	LastName      string
	Nationality   string
	Hand          Handedness
	Height        uint32
	DateOfBirth   *time.Time
	ActivityBegin time.Time
	ActivityEnd   time.Time

	history []NationalityPeriod
}

func New(id uint64, firstName, lastName, nationality string, hand Handedness, height uint32, dateOfBirth *time.Time, activityBegin, activityEnd time.Time) (Player, error) {
	p := Player{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Nationality:   nationality,
		Hand:          hand,
		Height:        height,
		DateOfBirth:   dateOfBirth,
		ActivityBegin: activityBegin,
		ActivityEnd:   activityEnd,
	}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

func (p Player) Validate() error {
	if p.ID == 0 {
		return fmt.Errorf("player id is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("player last name is required")
	}
	if len(p.Nationality) != 3 {
		return fmt.Errorf("player nationality must be a 3-letter code: %q", p.Nationality)
	}
	if !p.Hand.Valid() {
		return fmt.Errorf("invalid player handedness: %d", p.Hand)
	}
	if p.ActivityEnd.Before(p.ActivityBegin) {
		return fmt.Errorf("player activity end precedes begin")
	}
	return nil
}

// Unknown reports whether the player is the unattributed sentinel.
func (p Player) Unknown() bool {
	return p.ID == UnknownID
}

// NationalityHistory returns former nationalities ordered by end date
// ascending.
func (p Player) NationalityHistory() []NationalityPeriod {
	out := make([]NationalityPeriod, len(p.history))
	copy(out, p.history)
	return out
}

// NationalityAt returns the code in effect at the given date: the
// earliest historical period whose end date is after the date, or the
// current nationality when none applies.
func (p Player) NationalityAt(date time.Time) string {
	for _, period := range p.history {
		if date.Before(period.EndDate) {
			return period.Code
		}
	}
	return p.Nationality
}

// AddNationalityPeriod appends a former nationality. The code must
// differ from the current nationality and from every recorded code;
// end dates must be distinct and keep the list chronologically
// ordered.
func (p *Player) AddNationalityPeriod(code string, endDate time.Time) error {
	if len(code) != 3 {
		return fmt.Errorf("nationality must be a 3-letter code: %q", code)
	}
	if code == p.Nationality {
		return fmt.Errorf("historical nationality %q equals the current one", code)
	}
	for _, period := range p.history {
		if period.Code == code {
			return fmt.Errorf("nationality %q already recorded", code)
		}
		if period.EndDate.Equal(endDate) {
			return fmt.Errorf("nationality end date %s already recorded", endDate.Format("2006-01-02"))
		}
	}
	if n := len(p.history); n > 0 && endDate.Before(p.history[n-1].EndDate) {
		return fmt.Errorf("nationality end date %s breaks chronological order", endDate.Format("2006-01-02"))
	}
	p.history = append(p.history, NationalityPeriod{Code: code, EndDate: endDate})
	return nil
}
