package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDebounce = 20 * time.Millisecond

func writeResult(t *testing.T, dir, base string, label domain.Label) {
	t.Helper()
	path := domain.ResultFilePath(dir, base, label)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("id,label\n"), 0644))
}

type collector struct {
	mu     sync.Mutex
	labels []domain.Label
}

func (c *collector) handle(label domain.Label) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append(c.labels, label)
	return nil
}

func TestWatcher_ExistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "X", domain.LabelJoy)
	writeResult(t, dir, "X", domain.LabelFear)

	var c collector
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := New(dir, "X", testDebounce).Run(ctx, []domain.Label{domain.LabelJoy, domain.LabelFear}, c.handle)

	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Label{domain.LabelJoy, domain.LabelFear}, c.labels)
}

func TestWatcher_FileCreatedLater(t *testing.T) {
	dir := t.TempDir()

	var c collector
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- New(dir, "X", testDebounce).Run(ctx, []domain.Label{domain.LabelLove}, c.handle)
	}()

	// Give the watcher time to register the results directory.
	time.Sleep(50 * time.Millisecond)
	writeResult(t, dir, "X", domain.LabelLove)

	require.NoError(t, <-done)
	assert.Equal(t, []domain.Label{domain.LabelLove}, c.labels)
}

func TestWatcher_IgnoresOtherExports(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "other", domain.LabelJoy)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	var c collector
	err := New(dir, "X", testDebounce).Run(ctx, []domain.Label{domain.LabelJoy}, c.handle)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, c.labels)
}

func TestWatcher_JoinsHandlerErrors(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "X", domain.LabelAnger)
	writeResult(t, dir, "X", domain.LabelSadness)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boom := errors.New("boom")
	err := New(dir, "X", testDebounce).Run(ctx, []domain.Label{domain.LabelAnger, domain.LabelSadness},
		func(label domain.Label) error {
			if label == domain.LabelAnger {
				return boom
			}
			return nil
		})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "anger")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	err := New(filepath.Join(t.TempDir(), "absent"), "X", testDebounce).
		Run(context.Background(), domain.Labels(), func(domain.Label) error { return nil })

	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	w := New("", "X", 0)

	assert.Equal(t, ".", w.dir)
	assert.Equal(t, DefaultDebounce, w.debounce)
}
