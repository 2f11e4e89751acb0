package service

import (
	"time"

	"party-invites/modules/reminder/entity"
)

const (
	day = 24 * time.Hour

	// LookaheadWindow bounds the candidate query: now <= event <= now + LookaheadWindow.
	LookaheadWindow = 8 * day

	sameDayHour = 9
)

// checkpointByDays maps an exact day count to its checkpoint. Other counts send nothing.
var checkpointByDays = map[int]entity.ReminderType{
	7: entity.ReminderSevenDays,
	2: entity.ReminderTwoDays,
	0: entity.ReminderSameDay,
}

type Target struct {
	Type entity.ReminderType
	At   time.Time
}

// CheckpointTargets returns the send instants for an event: 7 days before,
// 2 days before, and 09:00 in loc on the event's calendar day.
func CheckpointTargets(event time.Time, loc *time.Location) []Target {
	local := event.In(loc)
	morning := time.Date(local.Year(), local.Month(), local.Day(), sameDayHour, 0, 0, 0, loc)
	return []Target{
		{Type: entity.ReminderSevenDays, At: event.Add(-7 * day)},
		{Type: entity.ReminderTwoDays, At: event.Add(-2 * day)},
		{Type: entity.ReminderSameDay, At: morning},
	}
}

// DaysUntil is ceil((event - now) / 24h).
func DaysUntil(event, now time.Time) int {
	d := event.Sub(now)
	days := int(d / day)
	if d%day > 0 {
		days++
	}
	return days
}

func CheckpointFor(daysUntil int) (entity.ReminderType, bool) {
	t, ok := checkpointByDays[daysUntil]
	return t, ok
}
