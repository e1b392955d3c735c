package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// WeekWindow is the Monday-Sunday range displayed by the calendar.
type WeekWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GridConfig fixes the vertical scale of the weekly calendar. Hours
// are whole-hour marks; appointments are positioned relative to
// FirstHour at PxPerHour pixels per hour.
type GridConfig struct {
	FirstHour int     `json:"first_hour"`
	LastHour  int     `json:"last_hour"`
	PxPerHour float64 `json:"px_per_hour"`
}

// Block is the computed placement of one appointment inside a day
// column. Offsets may be negative or extend past the last slot when
// the appointment falls outside the grid hours; that overflow is
// rendered as-is, not clamped.
type Block struct {
	TopOffsetPx float64 `json:"top_offset_px"`
	HeightPx    float64 `json:"height_px"`
}

// TimeSlots returns the whole-hour markers of the grid, first to last
// hour inclusive.
func (g GridConfig) TimeSlots() []int {
	slots := make([]int, 0, g.LastHour-g.FirstHour+1)
	for h := g.FirstHour; h <= g.LastHour; h++ {
		slots = append(slots, h)
	}
	return slots
}

// WeekOf returns the Monday-Sunday window containing ref. The window
// always spans exactly 7 days regardless of locale.
func WeekOf(ref time.Time) WeekWindow {
	start := startOfWeek(ref)
	return WeekWindow{
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}

// WeekDays returns the 7 consecutive days of the week containing ref,
// Monday first. Same input always yields the same output.
func WeekDays(ref time.Time) []time.Time {
	start := startOfWeek(ref)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// NextWeek advances the reference date by exactly 7 days. There is no
// clamping: navigation is unbounded in both directions.
func NextWeek(ref time.Time) time.Time {
	return ref.AddDate(0, 0, 7)
}

// PreviousWeek retreats the reference date by exactly 7 days.
func PreviousWeek(ref time.Time) time.Time {
	return ref.AddDate(0, 0, -7)
}

// startOfWeek truncates to midnight on the Monday on or before ref.
func startOfWeek(ref time.Time) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	// time.Weekday has Sunday = 0; shift so Monday = 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// AppointmentsForDay filters appointments whose calendar date equals
// day, ignoring time-of-day. The filter is stable: input relative
// order is preserved and nothing is re-sorted.
func AppointmentsForDay(appointments []*types.Appointment, day time.Time) []*types.Appointment {
	target := day.Format(types.DateFormat)
	matched := make([]*types.Appointment, 0)
	for _, apt := range appointments {
		if apt.Date == target {
			matched = append(matched, apt)
		}
	}
	return matched
}

// Layout computes the vertical placement of an appointment inside its
// day column. A malformed time string violates the caller's
// precondition and is surfaced as an error, never silently recovered.
// Durations of zero or less fall back to the default; placements are
// not clamped to the grid bounds.
func Layout(apt *types.Appointment, grid GridConfig) (Block, error) {
	hour, minute, err := parseClock(apt.Time)
	if err != nil {
		return Block{}, fmt.Errorf("appointment %s: %w", apt.ID, err)
	}

	duration := apt.DurationMinutes
	if duration <= 0 {
		duration = types.DefaultDurationMinutes
	}

	startHour := float64(hour) + float64(minute)/60
	return Block{
		TopOffsetPx: (startHour - float64(grid.FirstHour)) * grid.PxPerHour,
		HeightPx:    float64(duration) / 60 * grid.PxPerHour,
	}, nil
}

// parseClock parses a naive 24h "HH:MM" wall-clock value.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}

	return hour, minute, nil
}

// StatusLabel maps an appointment status to its display label. The
// mapping is total over the closed status set; anything else is a
// programming error.
func StatusLabel(status types.AppointmentStatus) string {
	switch status {
	case types.StatusPending:
		return "En attente"
	case types.StatusConfirmed:
		return "Confirmé"
	case types.StatusCanceled:
		return "Annulé"
	case types.StatusDone:
		return "Terminé"
	}
	panic(fmt.Sprintf("unknown appointment status: %q", status))
}

// StatusColor maps an appointment status to its presentation color
// token, mirroring StatusLabel's totality.
func StatusColor(status types.AppointmentStatus) string {
	switch status {
	case types.StatusPending:
		return "status-pending"
	case types.StatusConfirmed:
		return "status-confirmed"
	case types.StatusCanceled:
		return "status-canceled"
	case types.StatusDone:
		return "status-done"
	}
	panic(fmt.Sprintf("unknown appointment status: %q", status))
}
