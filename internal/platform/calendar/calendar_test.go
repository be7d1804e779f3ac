package calendar

import (
	"testing"
	"time"
)

func TestWeekNumberStableWithinWeek(t *testing.T) {
	t.Parallel()

	// 2015-06-08 is a Monday.
	monday := time.Date(2015, time.June, 8, 0, 0, 0, 0, time.UTC)
	want := WeekNumber(monday)
	for offset := 1; offset < 7; offset++ {
		day := monday.AddDate(0, 0, offset)
		if got := WeekNumber(day); got != want {
			t.Fatalf("week number changed within Monday-Sunday week: %s -> %d, want %d", day.Format("2006-01-02"), got, want)
		}
	}
	if got := WeekNumber(monday.AddDate(0, 0, 7)); got == want {
		t.Fatalf("next Monday should start a new week, still got %d", got)
	}
}

func TestIs53WeekYear(t *testing.T) {
	t.Parallel()

	cases := []struct {
		year int
		want bool
	}{
		{2015, true},  // 2016-01-01 is a Friday
		{2016, true},  // 2017-01-01 is a Sunday
		{2013, false}, // 2014-01-01 is a Wednesday
		{2019, false}, // 2020-01-01 is a Wednesday
		{2020, true},  // 2021-01-01 is a Friday
	}
	for _, tc := range cases {
		if got := Is53WeekYear(tc.year); got != tc.want {
			t.Errorf("Is53WeekYear(%d) = %t, want %t", tc.year, got, tc.want)
		}
	}

	if got := WeeksInYear(2015); got != 53 {
		t.Errorf("WeeksInYear(2015) = %d, want 53", got)
	}
	if got := WeeksInYear(2013); got != 52 {
		t.Errorf("WeeksInYear(2013) = %d, want 52", got)
	}
}

func TestRankingYearAndWeek(t *testing.T) {
	t.Parallel()

	cases := []struct {
		date     time.Time
		wantYear int
		wantWeek int
	}{
		// Mid-year date stays put.
		{time.Date(2015, time.July, 6, 0, 0, 0, 0, time.UTC), 2015, 28},
		// 2014-12-29 is a Monday in ISO week 1 of 2015.
		{time.Date(2014, time.December, 29, 0, 0, 0, 0, time.UTC), 2015, 1},
		// 2016-01-01 is a Friday in ISO week 53 of 2015.
		{time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC), 2015, 53},
	}
	for _, tc := range cases {
		year, week := RankingYearAndWeek(tc.date)
		if year != tc.wantYear || week != tc.wantWeek {
			t.Errorf("RankingYearAndWeek(%s) = (%d, %d), want (%d, %d)",
				tc.date.Format("2006-01-02"), year, week, tc.wantYear, tc.wantWeek)
		}
	}
}
