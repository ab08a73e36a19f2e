package birthdays

import (
	"slices"
	"testing"
	"time"

	"birthdaybot/bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rows = []models.BirthdayRow{
	{Name: "Alice", RawDate: "2024-03-05", Handle: "alice_h"},
	{Name: "Bob", RawDate: "2023-07-20", Handle: "bob_h"},
	{Name: "Carol", RawDate: "03/05/1990", Handle: "carol_h"},
	{Name: "Dan", RawDate: "not a date", Handle: "dan_h"},
	{Name: "Erin", RawDate: "", Handle: "erin_h"},
}

func handles(seq func(func(models.BirthdayRow) bool)) []string {
	var out []string
	for row := range seq {
		out = append(out, row.Handle)
	}
	return out
}

func TestToday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []string
	}{
		{"march 5th", time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC), []string{"alice_h", "carol_h"}},
		{"july 20th", time.Date(1999, time.July, 20, 0, 0, 0, 0, time.UTC), []string{"bob_h"}},
		{"no match", time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handles(Today(tt.now, rows)))
		})
	}
}

func TestTodayComparesInUTC(t *testing.T) {
	// 23:30 on March 4th in New York is already March 5th in UTC.
	loc := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, time.March, 4, 23, 30, 0, 0, loc)

	assert.Equal(t, []string{"alice_h", "carol_h"}, handles(Today(now, rows)))
}

func TestTodayStopsWhenConsumerStops(t *testing.T) {
	now := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

	var seen []string
	for row := range Today(now, rows) {
		seen = append(seen, row.Handle)
		break
	}

	assert.Equal(t, []string{"alice_h"}, seen)
}

func TestTodayKeepsDuplicatesInOrder(t *testing.T) {
	now := time.Date(2026, time.July, 20, 0, 0, 0, 0, time.UTC)
	dupes := []models.BirthdayRow{
		{Name: "Bob", RawDate: "2023-07-20", Handle: "bob_h"},
		{Name: "Zed", RawDate: "July 20, 1985", Handle: "zed_h"},
		{Name: "Bob", RawDate: "2023-07-20", Handle: "bob_h"},
	}

	assert.Equal(t, []string{"bob_h", "zed_h", "bob_h"}, handles(Today(now, dupes)))
}

func TestLeapDay(t *testing.T) {
	leap := models.BirthdayRow{Name: "Leo", RawDate: "2000-02-29", Handle: "leo_h"}

	assert.True(t, IsBirthday(leap, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsBirthday(leap, time.Date(2027, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsBirthday(leap, time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	valid := []string{
		"2024-03-05",
		"2024-03-05T00:00:00Z",
		"03/05/2024",
		"3/5/2024",
		"2024/03/05",
		"05.03.2024",
		"March 5, 2024",
		"Mar 5, 2024",
		"5 March 2024",
		"03-05",
		"March 5",
	}

	for _, raw := range valid {
		t.Run(raw, func(t *testing.T) {
			date, ok := ParseDate(raw)
			require.True(t, ok)
			assert.Equal(t, time.March, date.Month())
			assert.Equal(t, 5, date.Day())
		})
	}

	invalid := []string{"", "   ", "tomorrow", "2024-13-45", "31/31/2024"}
	for _, raw := range invalid {
		_, ok := ParseDate(raw)
		assert.False(t, ok, raw)
	}
}

func TestUnparseableNeverMatches(t *testing.T) {
	bad := models.BirthdayRow{Name: "Dan", RawDate: "sometime in spring", Handle: "dan_h"}

	for day := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC); day.Year() == 2026; day = day.AddDate(0, 0, 1) {
		require.False(t, IsBirthday(bad, day))
	}

	assert.False(t, slices.Contains(handles(Today(time.Now(), []models.BirthdayRow{bad})), "dan_h"))
}
