package countdown

import (
	"testing"
	"time"

	"github.com/abhisek/examiner/internal/clock"
)

var epoch = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestRemainingBeforeStart(t *testing.T) {
	clk := clock.NewFake(epoch)
	tm := New(time.Minute, clk)

	clk.Advance(10 * time.Minute)
	if got := tm.Remaining(); got != time.Minute {
		t.Errorf("Remaining() = %v, want full duration before start", got)
	}
	if tm.Poll() {
		t.Error("Poll() fired on an unarmed timer")
	}
	if !tm.Deadline().IsZero() {
		t.Errorf("Deadline() = %v, want zero before start", tm.Deadline())
	}
}

func TestRemainingCountsDown(t *testing.T) {
	clk := clock.NewFake(epoch)
	tm := New(10*time.Second, clk)
	tm.Start()

	clk.Advance(3 * time.Second)
	if got := tm.Remaining(); got != 7*time.Second {
		t.Errorf("Remaining() = %v, want 7s", got)
	}
	if got := tm.RemainingSeconds(); got != 7 {
		t.Errorf("RemainingSeconds() = %d, want 7", got)
	}

	clk.Advance(6500 * time.Millisecond)
	if got := tm.RemainingSeconds(); got != 1 {
		t.Errorf("RemainingSeconds() with 500ms left = %d, want 1 (rounded up)", got)
	}

	clk.Advance(time.Hour)
	if got := tm.Remaining(); got != 0 {
		t.Errorf("Remaining() past deadline = %v, want 0", got)
	}
	if got := tm.RemainingSeconds(); got != 0 {
		t.Errorf("RemainingSeconds() past deadline = %d, want 0", got)
	}
}

func TestPollFiresExactlyOnce(t *testing.T) {
	clk := clock.NewFake(epoch)
	tm := New(5*time.Second, clk)
	tm.Start()

	for i := 0; i < 4; i++ {
		clk.Advance(time.Second)
		if tm.Poll() {
			t.Fatalf("Poll() fired early at tick %d", i+1)
		}
	}

	clk.Advance(time.Second)
	if !tm.Poll() {
		t.Fatal("Poll() did not fire at the deadline")
	}
	if !tm.Fired() {
		t.Error("Fired() = false after expiry")
	}

	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
		if tm.Poll() {
			t.Fatal("Poll() fired a second time")
		}
	}
}

func TestStopCancelsNotification(t *testing.T) {
	clk := clock.NewFake(epoch)
	tm := New(5*time.Second, clk)
	tm.Start()

	clk.Advance(2 * time.Second)
	tm.Stop()

	clk.Advance(time.Minute)
	if tm.Poll() {
		t.Error("Poll() fired after Stop")
	}
	if got := tm.Remaining(); got != 3*time.Second {
		t.Errorf("Remaining() after Stop = %v, want frozen at 3s", got)
	}
	if !tm.Stopped() {
		t.Error("Stopped() = false")
	}
}

func TestStopBeforeStart(t *testing.T) {
	clk := clock.NewFake(epoch)
	tm := New(5*time.Second, clk)
	tm.Stop()

	start := tm.Start()
	if !start.IsZero() {
		t.Errorf("Start() after Stop armed the timer at %v", start)
	}
	clk.Advance(time.Minute)
	if tm.Poll() {
		t.Error("Poll() fired on a timer stopped before start")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	clk := clock.NewFake(epoch)
	tm := New(time.Minute, clk)

	first := tm.Start()
	clk.Advance(10 * time.Second)
	second := tm.Start()

	if !first.Equal(second) {
		t.Errorf("second Start() = %v, want original %v", second, first)
	}
	if got := tm.Deadline(); !got.Equal(epoch.Add(time.Minute)) {
		t.Errorf("Deadline() = %v, want %v", got, epoch.Add(time.Minute))
	}
}

func TestRemainingSecondsNearMaxDuration(t *testing.T) {
	const secs = int64(9223372036)
	clk := clock.NewFake(epoch)
	tm := New(time.Duration(secs)*time.Second, clk)
	tm.Start()

	if got := tm.RemainingSeconds(); int64(got) != secs {
		t.Fatalf("RemainingSeconds() = %d, want %d", got, secs)
	}
	clk.Advance(time.Millisecond)
	if got := tm.RemainingSeconds(); int64(got) != secs {
		t.Errorf("RemainingSeconds() after 1ms = %d, want %d", got, secs)
	}
}
