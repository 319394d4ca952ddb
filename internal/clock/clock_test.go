package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
	if actual.Location() != time.UTC {
		t.Errorf("RealClock.Now() location = %v, want UTC", actual.Location())
	}
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("returns fixed time", func(t *testing.T) {
		clock := NewFakeClock(start)
		if !clock.Now().Equal(start) || !clock.Now().Equal(start) {
			t.Errorf("FakeClock.Now() should stay at %v", start)
		}
	})

	t.Run("set and advance", func(t *testing.T) {
		clock := NewFakeClock(start)
		later := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		clock.Set(later)
		clock.Advance(90 * time.Minute)

		want := later.Add(90 * time.Minute)
		if got := clock.Now(); !got.Equal(want) {
			t.Errorf("Now() = %v, want %v", got, want)
		}
	})

	t.Run("tick advances after each read", func(t *testing.T) {
		clock := NewFakeClock(start)
		clock.Tick(time.Second)

		first := clock.Now()
		second := clock.Now()
		third := clock.Now()

		if !first.Equal(start) {
			t.Errorf("first Now() = %v, want %v", first, start)
		}
		if !second.Equal(start.Add(time.Second)) || !third.Equal(start.Add(2*time.Second)) {
			t.Errorf("ticks = %v, %v; want one second apart", second, third)
		}
	})

	t.Run("independent clocks", func(t *testing.T) {
		clock1 := NewFakeClock(start)
		clock2 := NewFakeClock(start)
		clock1.Advance(time.Hour)
		if clock1.Now().Equal(clock2.Now()) {
			t.Error("Advancing one clock should not affect another")
		}
	})
}
