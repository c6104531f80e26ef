package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		diff time.Duration
		want string
	}{
		{name: "days branch omits seconds", diff: 90061 * time.Second, want: "1d 1h 1m"},
		{name: "under a day", diff: 3661 * time.Second, want: "1h 1m 1s"},
		{name: "sub-second floors to zero seconds", diff: 1500 * time.Millisecond, want: "0h 0m 1s"},
		{name: "exactly due", diff: 0, want: TimesUp},
		{name: "past due", diff: -5 * time.Minute, want: TimesUp},
		{name: "under one second left is not due yet", diff: 400 * time.Millisecond, want: "0h 0m 0s"},
		{name: "one millisecond past due", diff: -time.Millisecond, want: TimesUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Countdown(now.Add(tt.diff), now)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCountdown_OverdueIsIdempotent(t *testing.T) {
	due := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		r := Countdown(due, due.Add(time.Duration(i)*time.Hour))
		assert.True(t, r.Overdue)
		assert.Equal(t, Remaining{Overdue: true}, r)
		assert.Equal(t, TimesUp, r.String())
	}
}
