package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockElapsed(t *testing.T) {
	c := NewClock()
	c.Start()
	time.Sleep(5 * time.Millisecond)
	c.Update()
	assert.Greater(t, c.Elapsed(), 0.0)
	assert.Greater(t, c.ElapsedMilliseconds(), 1.0)
}

func TestClockStoppedDoesNotUpdate(t *testing.T) {
	c := NewClock()
	c.Start()
	time.Sleep(time.Millisecond)
	c.Update()
	elapsed := c.Elapsed()

	c.Stop()
	time.Sleep(time.Millisecond)
	c.Update()
	assert.Equal(t, elapsed, c.Elapsed())
}
