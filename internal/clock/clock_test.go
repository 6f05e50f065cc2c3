package clock

import (
	"testing"
	"time"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)

	if !f.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", f.Now(), start)
	}

	f.Advance(90 * time.Second)
	if got := f.Now().Sub(start); got != 90*time.Second {
		t.Errorf("elapsed = %v, want 90s", got)
	}

	later := start.Add(time.Hour)
	f.Set(later)
	if !f.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", f.Now(), later)
	}
}

func TestRealIsMonotonic(t *testing.T) {
	var c Clock = Real{}
	a := c.Now()
	b := c.Now()
	if b.Before(a) {
		t.Errorf("second reading %v before first %v", b, a)
	}
}
