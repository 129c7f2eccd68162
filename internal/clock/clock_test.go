package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestManual_AdvanceFiresInOrder(t *testing.T) {
	m := NewManual(epoch)
	var fired []string

	m.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	m.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	m.AfterFunc(5*time.Second, func() { fired = append(fired, "c") })

	m.Advance(2 * time.Second)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, epoch.Add(2*time.Second), m.Now())
	assert.Equal(t, 1, m.Pending())
}

func TestManual_CallbackSchedulesWithinWindow(t *testing.T) {
	m := NewManual(epoch)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		m.AfterFunc(time.Second, tick)
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(10 * time.Second)

	assert.Equal(t, 10, ticks)
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(epoch)
	called := false
	timer := m.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	m.Advance(time.Minute)

	assert.False(t, called)
	assert.Equal(t, 0, m.Pending())
}

func TestDebouncer_OnlyLastCallRuns(t *testing.T) {
	m := NewManual(epoch)
	d := NewDebouncer(m, 200*time.Millisecond)
	var got []string

	d.Trigger(func() { got = append(got, "1") })
	m.Advance(150 * time.Millisecond)
	d.Trigger(func() { got = append(got, "12") })
	m.Advance(150 * time.Millisecond)
	d.Trigger(func() { got = append(got, "123") })

	assert.Empty(t, got)
	assert.True(t, d.Pending())

	m.Advance(200 * time.Millisecond)

	assert.Equal(t, []string{"123"}, got)
	assert.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	m := NewManual(epoch)
	d := NewDebouncer(m, 200*time.Millisecond)
	called := false

	d.Trigger(func() { called = true })
	d.Cancel()
	m.Advance(time.Second)

	assert.False(t, called)
}
