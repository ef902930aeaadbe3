package services

import (
	"sync"

	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
)

// recordingProgress captures progress calls for assertions.
type recordingProgress struct {
	mu    sync.Mutex
	tasks []*recordingTask
}

type recordingTask struct {
	mu    sync.Mutex
	name  string
	total int
	count int
	done  bool
}

func (p *recordingProgress) Start(name string, total int) driven.ProgressTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	task := &recordingTask{name: name, total: total}
	p.tasks = append(p.tasks, task)
	return task
}

func (t *recordingTask) Increment() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
}

func (t *recordingTask) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
}
