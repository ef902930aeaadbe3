package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"

	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
)

// redrawInterval limits how often a live bar is repainted.
const redrawInterval = 100 * time.Millisecond

// terminalProgress renders tasks to w. On a terminal a single running task
// gets a live bar; otherwise, or while tasks overlap, only final counts
// are printed.
type terminalProgress struct {
	mu     sync.Mutex
	w      io.Writer
	live   bool
	active int
}

func newProgress(w io.Writer) driven.Progress {
	return &terminalProgress{w: w, live: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *terminalProgress) Start(name string, total int) driven.ProgressTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active++
	return &progressTask{
		parent: p,
		name:   name,
		total:  total,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

type progressTask struct {
	parent   *terminalProgress
	name     string
	total    int
	count    int
	done     bool
	lastDraw time.Time
	bar      progress.Model
}

func (t *progressTask) Increment() {
	p := t.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	t.count++
	if !p.live || p.active > 1 || time.Since(t.lastDraw) < redrawInterval {
		return
	}
	t.lastDraw = time.Now()
	fmt.Fprint(p.w, "\r"+t.line())
}

func (t *progressTask) Done() {
	p := t.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	p.active--
	if p.live {
		fmt.Fprint(p.w, "\r")
	}
	fmt.Fprintln(p.w, t.line())
}

func (t *progressTask) line() string {
	if t.total <= 0 {
		return fmt.Sprintf("%s: %d rows", t.name, t.count)
	}
	if !t.parent.live {
		return fmt.Sprintf("%s: %d/%d rows", t.name, t.count, t.total)
	}
	pct := float64(t.count) / float64(t.total)
	return fmt.Sprintf("%s %s %d/%d", t.name, t.bar.ViewAs(min(pct, 1)), t.count, t.total)
}
