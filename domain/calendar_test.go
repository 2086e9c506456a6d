package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testRules() Rules {
	rules := DefaultRules()
	rules.SemesterStart = time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC)
	return rules
}

func TestAcademicWeek(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"first day", time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC), 1},
		{"first sunday late evening", time.Date(2024, time.October, 6, 23, 59, 0, 0, time.UTC), 1},
		{"second monday", time.Date(2024, time.October, 7, 8, 0, 0, 0, time.UTC), 2},
		{"week eleven", time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC), 11},
		{"day before semester", time.Date(2024, time.September, 29, 0, 0, 0, 0, time.UTC), 0},
		{"week before semester", time.Date(2024, time.September, 23, 0, 0, 0, 0, time.UTC), 0},
		{"two weeks before semester", time.Date(2024, time.September, 22, 0, 0, 0, 0, time.UTC), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.AcademicWeek(tt.date))
		})
	}
}

func TestGradingWindow(t *testing.T) {
	rules := testRules()
	a := NewAssignment("T1", "Lab 3", 11, 12)

	from, to := rules.GradingWindow(a)
	assert.Equal(t, time.Date(2024, time.December, 9, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.December, 22, 0, 0, 0, 0, time.UTC), to)

	assert.True(t, rules.InGradingWindow(a, from))
	assert.True(t, rules.InGradingWindow(a, to.Add(23*time.Hour)))
	assert.False(t, rules.InGradingWindow(a, from.AddDate(0, 0, -1)))
	assert.False(t, rules.InGradingWindow(a, to.AddDate(0, 0, 1)))
}

func TestAcademicWeek_OtherLocation(t *testing.T) {
	// семестр в UTC, даты в EET: неделя считается по календарному дню самой даты
	rules := testRules()
	eet := time.FixedZone("EET", 2*60*60)

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"first day at midnight", time.Date(2024, time.September, 30, 0, 0, 0, 0, eet), 1},
		{"last day of first week", time.Date(2024, time.October, 6, 0, 0, 0, 0, eet), 1},
		{"second monday at midnight", time.Date(2024, time.October, 7, 0, 0, 0, 0, eet), 2},
		{"day before semester", time.Date(2024, time.September, 29, 23, 0, 0, 0, eet), 0},
		{"late evening utc", time.Date(2024, time.October, 6, 23, 30, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.AcademicWeek(tt.date))
		})
	}
}

func TestGradingWindow_OtherLocation(t *testing.T) {
	rules := DefaultRules()
	a := NewAssignment("T1", "Lab 3", 11, 12)

	for _, loc := range []*time.Location{
		time.FixedZone("EET", 2*60*60),
		time.FixedZone("JST", 9*60*60),
		time.FixedZone("PST", -8*60*60),
	} {
		t.Run(loc.String(), func(t *testing.T) {
			// окно 2018-12-10..2018-12-23
			assert.True(t, rules.InGradingWindow(a, time.Date(2018, time.December, 10, 0, 0, 0, 0, loc)))
			assert.True(t, rules.InGradingWindow(a, time.Date(2018, time.December, 23, 0, 0, 0, 0, loc)))
			assert.False(t, rules.InGradingWindow(a, time.Date(2018, time.December, 9, 0, 0, 0, 0, loc)))
			assert.False(t, rules.InGradingWindow(a, time.Date(2018, time.December, 24, 0, 0, 0, 0, loc)))
		})
	}
}
