package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text, name, args string
	}{
		{"/pay monthly 100", "pay", "monthly 100"},
		{"/payments", "payments", ""},
		{"/Pay@studio_bot  100 ", "pay", "100"},
		{"  /help", "help", ""},
		{"привет", "", "привет"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, args := splitCommand(tt.text)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want model.Period
	}{
		{"", model.Period{Month: 4, Year: 2025}},
		{"03.2025", model.Period{Month: 3, Year: 2025}},
		{"3/2025", model.Period{Month: 3, Year: 2025}},
		{"2025-03", model.Period{Month: 3, Year: 2025}},
		{"12 2024", model.Period{Month: 12, Year: 2024}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parsePeriod(tt.raw, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, raw := range []string{"13.2025", "0.2025", "март", "1.2.2025", "x.2025"} {
		_, err := parsePeriod(raw, now)
		assert.ErrorIs(t, err, service.ErrInvalidInput, raw)
	}
}

func TestParseOptionalPeriodAndList(t *testing.T) {
	period, err := parseOptionalPeriod("  ")
	require.NoError(t, err)
	assert.Nil(t, period)

	period, err = parseOptionalPeriod("1.2025")
	require.NoError(t, err)
	assert.Equal(t, &model.Period{Month: 1, Year: 2025}, period)

	periods, err := parsePeriods("1.2025,2.2025,")
	require.NoError(t, err)
	assert.Equal(t, []model.Period{{Month: 1, Year: 2025}, {Month: 2, Year: 2025}}, periods)

	_, err = parsePeriods("1.2025,13.2025")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"07.03.2025", "7.3.2025", "2025-03-07"} {
		got, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := parseDate("31.02.2025")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestParseTimeRange(t *testing.T) {
	start, end, err := parseTimeRange("9:00-10:30")
	require.NoError(t, err)
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "10:30", end)

	for _, raw := range []string{"24:00-25:00", "18:00", "18-19", "18:60-19:00"} {
		_, _, err := parseTimeRange(raw)
		assert.ErrorIs(t, err, service.ErrInvalidInput, raw)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]model.Weekday{
		"пн":          model.Monday,
		"Воскресенье": model.Sunday,
		"sat":         model.Saturday,
		"0":           model.Sunday,
		"3":           model.Wednesday,
	}
	for raw, want := range tests {
		got, err := parseWeekday(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := parseWeekday("7")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestParseTimeSlots(t *testing.T) {
	slots, err := parseTimeSlots("пн,ср 18:00-19:30\n\nсб 10:00-11:00; вс 9:00-10:00")
	require.NoError(t, err)
	assert.Equal(t, []model.TimeSlot{
		{DayOfWeek: model.Monday, StartTime: "18:00", EndTime: "19:30"},
		{DayOfWeek: model.Wednesday, StartTime: "18:00", EndTime: "19:30"},
		{DayOfWeek: model.Saturday, StartTime: "10:00", EndTime: "11:00"},
		{DayOfWeek: model.Sunday, StartTime: "09:00", EndTime: "10:00"},
	}, slots)

	for _, text := range []string{"", "пн", "пн 18:00-19:00 лишнее", "xx 18:00-19:00", "пн 18:00"} {
		_, err := parseTimeSlots(text)
		assert.ErrorIs(t, err, service.ErrInvalidInput, text)
	}
}

func TestParseAttendance(t *testing.T) {
	entries := parseAttendance([]string{"a", "b:ABSENT", "c:late"})
	assert.Equal(t, []service.AttendanceEntry{
		{StudentID: "a"},
		{StudentID: "b", Status: model.AttendanceAbsent},
		{StudentID: "c", Status: "late"},
	}, entries)
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("1500,50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("1500.5")))

	_, err = parseAmount("много")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestParseOptions(t *testing.T) {
	options, err := parseOptions([]string{"user=42", "METHOD=card", "note=за", "два", "месяца"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"user":   "42",
		"method": "card",
		"note":   "за два месяца",
	}, options)

	_, err = parseOptions([]string{"user"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
