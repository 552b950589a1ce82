package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule_Valid(t *testing.T) {
	sched, err := ParseSchedule("*/15 * * * *")
	require.NoError(t, err)
	assert.False(t, sched.IsZero())
	assert.Equal(t, "*/15 * * * *", sched.String())
}

func TestParseSchedule_Invalid(t *testing.T) {
	_, err := ParseSchedule("this is not cron")
	assert.Error(t, err)
}

func TestSchedule_Next(t *testing.T) {
	sched, err := ParseSchedule("0 0 * * *")
	require.NoError(t, err)

	from := time.Date(2026, 7, 31, 13, 45, 0, 0, time.UTC)
	next := sched.Next(from)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), next)
}

func TestSchedule_ZeroValueIsZero(t *testing.T) {
	var sched Schedule
	assert.True(t, sched.IsZero())
}
