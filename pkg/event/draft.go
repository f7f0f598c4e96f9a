package event

import (
	"slices"
	"time"

	"github.com/calgapt/calgapt/internal/utils"
)

const (
	defaultDurationMinutes = 60
	maxDurationMinutes     = 24 * 60
)

// Draft is the editable form of an extracted event. The user adjusts start,
// duration and reminders before the event is published.
type Draft struct {
	base            CalendarEvent
	Title           string
	Description     string
	Start           time.Time
	DurationMinutes int
	Reminders       []int
}

// NewDraft derives a draft from an extracted event. An unparseable start
// falls back to the clock, an unparseable end to one hour after start, and a
// non-positive duration to one hour.
func NewDraft(e CalendarEvent, clock utils.Clock) *Draft {
	start, err := ParseLocal(e.Start)
	if err != nil {
		start = clock.Now().Truncate(time.Second)
	}
	end, err := ParseLocal(e.End)
	if err != nil {
		end = start.Add(time.Hour)
	}
	duration := int(end.Sub(start) / time.Minute)
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	return &Draft{
		base:            e,
		Title:           e.Title,
		Description:     e.Description,
		Start:           start,
		DurationMinutes: duration,
		Reminders:       slices.Clone(e.RemindersMinutes),
	}
}

func (d *Draft) SetStart(start time.Time) {
	d.Start = start
}

// SetDurationMinutes clamps the duration to between one minute and one day.
func (d *Draft) SetDurationMinutes(minutes int) {
	d.DurationMinutes = max(1, min(minutes, maxDurationMinutes))
}

// AddReminder ignores non-positive values and keeps the list unique and
// sorted in descending order.
func (d *Draft) AddReminder(minutes int) {
	if minutes <= 0 {
		return
	}
	if !slices.Contains(d.Reminders, minutes) {
		d.Reminders = append(d.Reminders, minutes)
	}
	d.Reminders = uniqueDescending(d.Reminders)
}

func (d *Draft) RemoveReminder(minutes int) {
	d.Reminders = slices.DeleteFunc(d.Reminders, func(m int) bool { return m == minutes })
}

// Event rebuilds a CalendarEvent from the draft. Location is carried over from
// the extracted event unchanged.
func (d *Draft) Event() CalendarEvent {
	end := d.Start.Add(time.Duration(d.DurationMinutes) * time.Minute)
	return CalendarEvent{
		Title:            d.Title,
		Start:            FormatLocal(d.Start),
		End:              FormatLocal(end),
		Description:      d.Description,
		Location:         d.base.Location,
		RemindersMinutes: slices.Clone(d.Reminders),
	}
}

func uniqueDescending(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}
