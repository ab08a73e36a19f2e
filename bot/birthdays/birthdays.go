// Package birthdays decides which spreadsheet rows celebrate today.
package birthdays

import (
	"iter"
	"strings"
	"time"

	"birthdaybot/bot/models"
)

// Layouts tried in order. Sheets renders date cells using the spreadsheet
// locale, so both ISO and the common US/EU forms show up.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"2006/1/2",
	"02.01.2006",
	"2.1.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Year-less layouts. Parsed with year 0, which is a leap year in the
// proleptic calendar Go uses, so "02-29" survives.
var monthDayLayouts = []string{
	"01-02",
	"January 2",
	"Jan 2",
}

// ParseDate turns a spreadsheet cell into a calendar date in UTC.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range monthDayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// IsBirthday compares month and day in UTC. Unparseable dates never match.
func IsBirthday(row models.BirthdayRow, now time.Time) bool {
	date, ok := ParseDate(row.RawDate)
	if !ok {
		return false
	}

	now = now.UTC()
	return date.Month() == now.Month() && date.Day() == now.Day()
}

// Today yields the rows whose birthday falls on now's UTC month and day,
// in sheet order.
func Today(now time.Time, rows []models.BirthdayRow) iter.Seq[models.BirthdayRow] {
	return func(yield func(models.BirthdayRow) bool) {
		for _, row := range rows {
			if !IsBirthday(row, now) {
				continue
			}

			if !yield(row) {
				return
			}
		}
	}
}
