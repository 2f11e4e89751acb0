package service

import (
	"testing"
	"time"

	"party-invites/modules/reminder/entity"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntilRoundsUp(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, DaysUntil(now.Add(7*day), now))
	assert.Equal(t, 7, DaysUntil(now.Add(6*day+time.Second), now))
	assert.Equal(t, 8, DaysUntil(now.Add(7*day+time.Nanosecond), now))
	assert.Equal(t, 1, DaysUntil(now.Add(time.Minute), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, 0, DaysUntil(now.Add(-time.Hour), now))
}

func TestCheckpointForExactMatchOnly(t *testing.T) {
	cases := map[int]entity.ReminderType{
		7: entity.ReminderSevenDays,
		2: entity.ReminderTwoDays,
		0: entity.ReminderSameDay,
	}
	for days, want := range cases {
		got, ok := CheckpointFor(days)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, days := range []int{1, 3, 4, 5, 6, 8, -1} {
		_, ok := CheckpointFor(days)
		assert.False(t, ok, days)
	}
}

func TestCheckpointTargetsUseLocalMorning(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 23:30 UTC on 14 June is 01:30 on 15 June in Berlin
	event := time.Date(2026, 6, 14, 23, 30, 0, 0, time.UTC)

	targets := CheckpointTargets(event, berlin)
	assert.Len(t, targets, 3)
	assert.Equal(t, event.Add(-7*day), targets[0].At)
	assert.Equal(t, event.Add(-2*day), targets[1].At)
	assert.Equal(t, time.Date(2026, 6, 15, 9, 0, 0, 0, berlin), targets[2].At)
	assert.Equal(t, entity.ReminderSameDay, targets[2].Type)
}
