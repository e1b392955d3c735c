package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(types.DateFormat, value)
	require.NoError(t, err)
	return parsed
}

func TestWeekDays(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		wantMonday string
	}{
		{"monday maps to itself", "2025-01-06", "2025-01-06"},
		{"wednesday maps back to monday", "2025-01-08", "2025-01-06"},
		{"sunday maps back six days", "2025-01-12", "2025-01-06"},
		{"saturday maps back five days", "2025-01-11", "2025-01-06"},
		{"across month boundary", "2025-03-01", "2025-02-24"},
		{"across year boundary", "2025-01-01", "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := WeekDays(mustDate(t, tt.ref))

			require.Len(t, days, 7)
			assert.Equal(t, tt.wantMonday, days[0].Format(types.DateFormat))
			assert.Equal(t, time.Monday, days[0].Weekday())

			for i := 1; i < 7; i++ {
				assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i],
					"days must be consecutive")
			}
		})
	}
}

func TestWeekOf(t *testing.T) {
	window := WeekOf(mustDate(t, "2025-01-09"))

	assert.Equal(t, "2025-01-06", window.Start.Format(types.DateFormat))
	assert.Equal(t, "2025-01-12", window.End.Format(types.DateFormat))
}

func TestNextPreviousWeekRoundTrip(t *testing.T) {
	refs := []string{"2025-01-06", "2025-01-09", "2024-12-31", "2025-02-28"}

	for _, ref := range refs {
		day := mustDate(t, ref)
		assert.Equal(t, day, PreviousWeek(NextWeek(day)))
		assert.Equal(t, day, NextWeek(PreviousWeek(day)))
		assert.Equal(t, day.AddDate(0, 0, 7), NextWeek(day))
	}
}

func TestNextWeekUnbounded(t *testing.T) {
	day := mustDate(t, "2025-01-06")
	for i := 0; i < 520; i++ {
		day = NextWeek(day)
	}
	assert.Equal(t, "2034-12-25", day.Format(types.DateFormat))
}

func TestAppointmentsForDay(t *testing.T) {
	appointments := []*types.Appointment{
		{ID: "a", Date: "2025-01-06", Time: "09:00"},
		{ID: "b", Date: "2025-01-07", Time: "10:00"},
		{ID: "c", Date: "2025-01-06", Time: "08:30"},
		{ID: "d", Date: "2025-01-08", Time: "11:00"},
	}

	monday := mustDate(t, "2025-01-06")
	got := AppointmentsForDay(appointments, monday)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID, "input order must be preserved")
	assert.Equal(t, "c", got[1].ID)

	empty := AppointmentsForDay(appointments, mustDate(t, "2025-01-10"))
	assert.Empty(t, empty)
}

func TestLayout(t *testing.T) {
	grid := GridConfig{FirstHour: 8, LastHour: 17, PxPerHour: 100}

	tests := []struct {
		name       string
		time       string
		duration   int
		wantTop    float64
		wantHeight float64
	}{
		{"one hour past grid start", "09:00", 30, 100, 50},
		{"at grid start with default duration", "08:00", 0, 0, 50},
		{"half hour offset", "09:30", 60, 150, 100},
		{"minute granularity", "10:15", 45, 225, 75},
		{"before grid start is not clamped", "07:00", 30, -100, 50},
		{"past grid end is not clamped", "18:00", 120, 1000, 200},
		{"negative duration falls back to default", "08:00", -15, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apt := &types.Appointment{ID: "apt-1", Time: tt.time, DurationMinutes: tt.duration}

			block, err := Layout(apt, grid)

			require.NoError(t, err)
			assert.InDelta(t, tt.wantTop, block.TopOffsetPx, 1e-9)
			assert.InDelta(t, tt.wantHeight, block.HeightPx, 1e-9)
		})
	}
}

func TestLayoutMalformedTime(t *testing.T) {
	grid := GridConfig{FirstHour: 8, LastHour: 17, PxPerHour: 100}

	for _, bad := range []string{"", "9am", "25:00", "09:60", "09", "09:00:00", "ab:cd"} {
		t.Run(bad, func(t *testing.T) {
			_, err := Layout(&types.Appointment{ID: "apt-1", Time: bad}, grid)
			assert.Error(t, err)
		})
	}
}

func TestGridTimeSlots(t *testing.T) {
	grid := GridConfig{FirstHour: 8, LastHour: 17, PxPerHour: 100}

	slots := grid.TimeSlots()

	require.Len(t, slots, 10)
	assert.Equal(t, 8, slots[0])
	assert.Equal(t, 17, slots[len(slots)-1])
}

func TestStatusMappings(t *testing.T) {
	labels := map[types.AppointmentStatus]string{
		types.StatusPending:   "En attente",
		types.StatusConfirmed: "Confirmé",
		types.StatusCanceled:  "Annulé",
		types.StatusDone:      "Terminé",
	}

	for status, want := range labels {
		assert.Equal(t, want, StatusLabel(status))
		assert.NotEmpty(t, StatusColor(status))
	}

	assert.Panics(t, func() { StatusLabel("unknown") })
	assert.Panics(t, func() { StatusColor("unknown") })
}
