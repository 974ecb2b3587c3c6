package highlight

import (
	"sort"
	"sync"
	"time"
)

// Handle is a scheduled callback.
type Handle interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

// TimerScheduler schedules callbacks with time.AfterFunc. Callbacks run on
// their own goroutine.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a Scheduler whose clock only moves when Advance is
// called. Due callbacks run synchronously inside Advance.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s   *ManualScheduler
	due time.Duration
	seq int
	fn  func()
}

// NewManualScheduler creates a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, due: s.now + d, seq: s.seq, fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Stop implements Handle.
func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i, task := range t.s.tasks {
		if task == t {
			t.s.tasks = append(t.s.tasks[:i], t.s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d and runs every callback that
// became due, in due order. Callbacks scheduled while advancing run too if
// they fall due within the window. It returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	ran := 0
	for {
		s.mu.Lock()
		sort.Slice(s.tasks, func(i, j int) bool {
			if s.tasks[i].due != s.tasks[j].due {
				return s.tasks[i].due < s.tasks[j].due
			}
			return s.tasks[i].seq < s.tasks[j].seq
		})
		if len(s.tasks) == 0 || s.tasks[0].due > target {
			s.now = target
			s.mu.Unlock()
			return ran
		}
		next := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.now = next.due
		s.mu.Unlock()

		next.fn()
		ran++
	}
}

// Pending returns the number of callbacks waiting to run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
