package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_Check(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name          string
		throttle      Throttle
		last          *time.Time
		wantRemaining int // 0 means allowed
	}{
		{"disabled", Throttle{Enabled: false, Cooldown: 5}, ago(time.Second), 0},
		{"no previous item", Throttle{Enabled: true, Cooldown: 5}, nil, 0},
		{"zero cooldown", Throttle{Enabled: true, Cooldown: 0}, ago(time.Second), 0},
		{"just created", Throttle{Enabled: true, Cooldown: 5}, ago(10 * time.Second), 5},
		{"two minutes", Throttle{Enabled: true, Cooldown: 5}, ago(2 * time.Minute), 3},
		{"partial minutes floor", Throttle{Enabled: true, Cooldown: 5}, ago(4*time.Minute + 59*time.Second), 1},
		{"exactly cooldown", Throttle{Enabled: true, Cooldown: 5}, ago(5 * time.Minute), 0},
		{"six minutes", Throttle{Enabled: true, Cooldown: 5}, ago(6 * time.Minute), 0},
		{"clock skew counts as elapsed", Throttle{Enabled: true, Cooldown: 5}, ago(-2 * time.Minute), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.throttle.Check(KindPost, tt.last, now)
			if tt.wantRemaining == 0 {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrRateLimited)
			var rl *RateLimitError
			require.ErrorAs(t, err, &rl)
			assert.Equal(t, KindPost, rl.Kind)
			assert.Equal(t, tt.throttle.Cooldown, rl.Cooldown)
			assert.Equal(t, tt.wantRemaining, rl.Remaining)
		})
	}
}
