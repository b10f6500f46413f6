package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in       string
		kind     models.ReminderKind
		interval time.Duration
	}{
		{"one day", models.RecurringInterval, 24 * time.Hour},
		{"daily", models.RecurringInterval, 24 * time.Hour},
		{"一天", models.RecurringInterval, 24 * time.Hour},
		{"2 days", models.RecurringInterval, 48 * time.Hour},
		{"1 hour", models.RecurringInterval, time.Hour},
		{"2 hours", models.RecurringInterval, 2 * time.Hour},
		{"2小时", models.RecurringInterval, 2 * time.Hour},
		{"30 minutes", models.RecurringInterval, 30 * time.Minute},
		{"30分钟", models.RecurringInterval, 30 * time.Minute},
		{"5", models.RecurringInterval, 5 * time.Minute},
		{"once 30 minutes", models.OneShotDelay, 30 * time.Minute},
		{"in 2 hours", models.OneShotDelay, 2 * time.Hour},
		{"hour", models.RecurringInterval, time.Hour},
		{"minutes", models.RecurringInterval, 10 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, err := ParseSpec(tt.in)
			require.NoError(t, err)
			assert.False(t, spec.Cancel)
			assert.Equal(t, tt.kind, spec.Kind)
			assert.Equal(t, tt.interval, spec.Interval)
		})
	}
}

func TestParseSpecCancel(t *testing.T) {
	for _, in := range []string{"cancel", "off", "stop", "取消", "CANCEL"} {
		spec, err := ParseSpec(in)
		require.NoError(t, err, in)
		assert.True(t, spec.Cancel, in)
	}
}

func TestParseSpecAbsolute(t *testing.T) {
	spec, err := ParseSpec("at 2030-06-01 09:30")
	require.NoError(t, err)
	assert.Equal(t, models.OneShotAbsolute, spec.Kind)
	assert.Equal(t, 2030, spec.At.Year())
	assert.Equal(t, 9, spec.At.Hour())
}

func TestParseSpecInvalid(t *testing.T) {
	for _, in := range []string{"", "soon", "-5", "0", "at tomorrow"} {
		_, err := ParseSpec(in)
		assert.ErrorIs(t, err, ErrInvalidSpec, "input %q", in)
	}
}
