package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTestClock_AdvancePastDeadlineFires(t *testing.T) {
	c := NewTest(time.Unix(0, 0))
	ch := c.After(5 * time.Second)

	select {
	case <-ch:
		t.Fatal("fired before advance")
	default:
	}

	c.Advance(10 * time.Second)

	select {
	case got := <-ch:
		assert.Equal(t, c.Now(), got)
	default:
		t.Fatal("did not fire after advance")
	}
}

func TestTestClock_TimerStopPreventsDelivery(t *testing.T) {
	c := NewTest(time.Unix(0, 0))
	timer := c.NewTimer(time.Second)
	assert.True(t, timer.Stop())

	c.Advance(2 * time.Second)

	select {
	case <-timer.C():
		t.Fatal("stopped timer should not fire")
	default:
	}
}
