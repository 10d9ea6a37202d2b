package citation

// Scheduler defers a task to run after the current unit of work
// completes. Implementations coalesce: at most one task is pending at a
// time, and a Defer while one is pending is a no-op.
type Scheduler interface {
	Defer(task func())
}

// LoopScheduler is a single-slot coalescing scheduler for a cooperative
// single-threaded host loop. The host calls Drain after each unit of
// work; a task deferred during Drain runs on the next Drain.
type LoopScheduler struct {
	pending func()
}

// NewLoopScheduler creates an empty scheduler.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{}
}

// Defer schedules task unless one is already pending.
func (s *LoopScheduler) Defer(task func()) {
	if s.pending == nil {
		s.pending = task
	}
}

// Pending reports whether a task is waiting to run.
func (s *LoopScheduler) Pending() bool {
	return s.pending != nil
}

// Drain runs the pending task, if any, and returns how many tasks ran
// (0 or 1). The slot is cleared before the task runs, so the task may
// defer again for a later Drain.
func (s *LoopScheduler) Drain() int {
	task := s.pending
	if task == nil {
		return 0
	}
	s.pending = nil
	task()
	return 1
}
