package driven

// Progress reports per-unit progress of a long-running operation.
type Progress interface {
	// Start begins a task. A negative total means the size is unknown.
	Start(name string, total int) ProgressTask
}

// ProgressTask tracks a single task started on a Progress.
type ProgressTask interface {
	// Increment records one processed unit.
	Increment()

	// Done marks the task finished.
	Done()
}

// NopProgress discards all progress updates.
type NopProgress struct{}

// Start returns a task that does nothing.
func (NopProgress) Start(string, int) ProgressTask { return nopTask{} }

type nopTask struct{}

func (nopTask) Increment() {}
func (nopTask) Done()      {}
