package highlight

import (
	"reflect"
	"testing"
	"time"
)

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []string
	s.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })

	if n := s.Advance(25 * time.Millisecond); n != 2 {
		t.Errorf("Advance ran %d callbacks, want 2", n)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("order = %v", got)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestManualSchedulerStop(t *testing.T) {
	s := NewManualScheduler()
	ran := false
	h := s.AfterFunc(time.Millisecond, func() { ran = true })
	if !h.Stop() {
		t.Error("first Stop should succeed")
	}
	if h.Stop() {
		t.Error("second Stop should report false")
	}
	s.Advance(time.Second)
	if ran {
		t.Error("stopped callback ran")
	}
}

func TestManualSchedulerRescheduleWithinWindow(t *testing.T) {
	s := NewManualScheduler()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			s.AfterFunc(10*time.Millisecond, tick)
		}
	}
	s.AfterFunc(10*time.Millisecond, tick)
	s.Advance(25 * time.Millisecond)
	if count != 2 {
		t.Errorf("count = %d after 25ms, want 2", count)
	}
	s.Advance(10 * time.Millisecond)
	if count != 3 {
		t.Errorf("count = %d after 35ms, want 3", count)
	}
}
