package cli

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_PlainOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	p := newProgress(buf)

	task := p.Start("export", 3)
	task.Increment()
	task.Increment()
	task.Done()
	task.Done()

	assert.Equal(t, "export: 2/3 rows\n", buf.String())
}

func TestProgress_UnknownTotal(t *testing.T) {
	buf := new(bytes.Buffer)
	p := newProgress(buf)

	task := p.Start("joy", -1)
	task.Increment()
	task.Done()

	assert.Equal(t, "joy: 1 rows\n", buf.String())
}

func TestProgress_ConcurrentTasks(t *testing.T) {
	buf := new(bytes.Buffer)
	p := newProgress(buf)

	var wg sync.WaitGroup
	for _, name := range []string{"joy", "love", "fear"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := p.Start(name, -1)
			for range 100 {
				task.Increment()
			}
			task.Done()
		}()
	}
	wg.Wait()

	out := buf.String()
	assert.Contains(t, out, "joy: 100 rows\n")
	assert.Contains(t, out, "love: 100 rows\n")
	assert.Contains(t, out, "fear: 100 rows\n")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}
