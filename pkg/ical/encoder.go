// Package ical renders calendar events as iCalendar (RFC 5545) objects.
//
// The output is a single VCALENDAR holding one VEVENT and one VALARM per
// reminder. Lines are CRLF terminated and never folded.
package ical

import (
	"fmt"
	"slices"
	"strings"

	"github.com/calgapt/calgapt/internal/utils"
	"github.com/calgapt/calgapt/pkg/event"
	"github.com/google/uuid"
)

const (
	ProductID = "-//CalGPT//CalDAV Publisher//EN"

	dtstampLayout = "20060102T150405Z"
	crlf          = "\r\n"
)

// Object is an encoded calendar object together with the UID it carries.
type Object struct {
	UID  string
	Data string
}

type Encoder struct {
	clock  utils.Clock
	newUID func() string
}

func NewEncoder(clock utils.Clock) *Encoder {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Encoder{
		clock:  clock,
		newUID: uuid.NewString,
	}
}

// Encode returns the calendar object text for e.
func (enc *Encoder) Encode(e event.CalendarEvent) string {
	return enc.EncodeObject(e).Data
}

// EncodeObject builds the calendar object for e with a fresh UID and a
// DTSTAMP of the current instant in UTC.
func (enc *Encoder) EncodeObject(e event.CalendarEvent) Object {
	uid := enc.newUID()
	dtstamp := enc.clock.Now().UTC().Format(dtstampLayout)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ProductID,
		"CALSCALE:GREGORIAN",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + dtstamp,
		"DTSTART:" + ToICalDateTime(e.Start),
		"DTEND:" + ToICalDateTime(e.End),
		"SUMMARY:" + EscapeText(e.Title),
		"DESCRIPTION:" + EscapeText(e.Description),
		"LOCATION:" + EscapeText(e.Location),
	}

	for _, minutes := range NormalizeReminders(e.RemindersMinutes) {
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			"DESCRIPTION:Reminder",
			fmt.Sprintf("TRIGGER:-PT%dM", minutes),
			"END:VALARM",
		)
	}

	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString(crlf)
	}
	return Object{UID: uid, Data: b.String()}
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// EscapeText escapes a TEXT property value. Backslashes are escaped before
// anything else so the escapes added here are not escaped again.
func EscapeText(value string) string {
	return textEscaper.Replace(value)
}

// ToICalDateTime turns a local date-time such as 2026-01-20T17:00:00 into the
// iCalendar basic form 20260120T170000.
func ToICalDateTime(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "-", "")
	return strings.ReplaceAll(value, ":", "")
}

// NormalizeReminders drops duplicates and non-positive values and sorts the
// rest in descending order. The input is left untouched.
func NormalizeReminders(minutes []int) []int {
	out := make([]int, 0, len(minutes))
	for _, m := range minutes {
		if m > 0 {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}
