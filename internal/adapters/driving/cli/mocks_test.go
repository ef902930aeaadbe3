package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/services"
)

// testEnv wires real services over in-memory stores.
type testEnv struct {
	dir        string
	records    *memory.RecordStore
	quarantine *memory.QuarantineLog
	runs       *memory.RunStore
	opened     []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		dir:        t.TempDir(),
		records:    memory.NewRecordStore(),
		quarantine: memory.NewQuarantineLog(),
		runs:       memory.NewRunStore(),
	}

	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set("export.dir", env.dir))
	require.NoError(t, settings.Set("results.dir", env.dir))
	require.NoError(t, settings.Set("watch.debounce_ms", "10"))
	settingsService = settings

	openSession = func(database string, s domain.AppSettings, progress driven.Progress) (*Session, error) {
		env.opened = append(env.opened, database)
		return &Session{
			Exporter: services.NewExportService(env.records, env.runs, progress),
			Reconciler: services.NewReconcileService(env.records, env.quarantine, env.runs, progress,
				services.ReconcileOptions{
					ResultsDir: s.Results.Dir,
					Workers:    s.Reconcile.Workers,
				}),
			Records: services.NewRecordService(env.records, progress),
			History: services.NewHistoryService(env.runs),
		}, nil
	}

	t.Cleanup(func() {
		openSession = nil
		settingsService = nil
	})
	return env
}

func (env *testEnv) seed(t *testing.T, texts ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(texts))
	for _, text := range texts {
		id, err := env.records.Insert(context.Background(), "comments", text)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func (env *testEnv) writeResult(t *testing.T, base string, label domain.Label, lines ...string) {
	t.Helper()
	path := domain.ResultFilePath(env.dir, base, label)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
}

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, dataDir, configDir = false, "", ""
	importWatch = false
	historyLimit = 20

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
