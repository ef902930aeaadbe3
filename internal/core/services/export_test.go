package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
)

// seedRecords inserts texts into a collection and returns their ids.
func seedRecords(t *testing.T, store *memory.RecordStore, collection string, texts ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(texts))
	for _, text := range texts {
		id, err := store.Insert(context.Background(), collection, text)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"), "file must end with a newline")
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestExportService_WritesRange(t *testing.T) {
	store := memory.NewRecordStore()
	ids := seedRecords(t, store, "comments", "zero", "one", "two", "three", "four")
	svc := NewExportService(store, nil, nil)
	dir := t.TempDir()

	res, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "comments", Identifier: "a", Start: 0, End: 2, BaseName: "X", Dir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "X_0_2.csv"), res.Path)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, []string{
		"id;text",
		domain.TagID("a", ids[0]) + ";zero",
		domain.TagID("a", ids[1]) + ";one",
	}, readLines(t, res.Path))
}

func TestExportService_ClampsEndToCount(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "comments", "a", "b", "c")
	svc := NewExportService(store, nil, nil)
	dir := t.TempDir()

	res, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "comments", Identifier: "b", Start: 1, End: 100, BaseName: "out", Dir: dir,
	})
	require.NoError(t, err)

	// File name keeps the requested bounds
	assert.Equal(t, filepath.Join(dir, "out_1_100.csv"), res.Path)
	assert.Equal(t, 2, res.Written)
	assert.Len(t, readLines(t, res.Path), 3)
}

func TestExportService_RowCountProperty(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "c", "1", "2", "3", "4", "5")
	svc := NewExportService(store, nil, nil)
	n := 5

	for start := 0; start <= 7; start++ {
		for end := 0; end <= 7; end++ {
			res, err := svc.Export(context.Background(), driving.ExportRequest{
				Collection: "c", Identifier: "p", Start: start, End: end, BaseName: "r", Dir: t.TempDir(),
			})
			require.NoError(t, err)
			want := max(0, min(end, n)-start)
			assert.Equal(t, want, res.Written, "start=%d end=%d", start, end)
			assert.Len(t, readLines(t, res.Path), want+1, "start=%d end=%d", start, end)
		}
	}
}

func TestExportService_InvertedRangeWritesHeaderOnly(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "comments", "a", "b", "c")
	svc := NewExportService(store, nil, nil)

	res, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "comments", Identifier: "a", Start: 10, End: 5, BaseName: "X", Dir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.Equal(t, []string{"id;text"}, readLines(t, res.Path))
}

func TestExportService_SanitizesText(t *testing.T) {
	store := memory.NewRecordStore()
	ids := seedRecords(t, store, "comments", "semi;colon\nnew \"quoted\"")
	svc := NewExportService(store, nil, nil)

	res, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "comments", Identifier: "z", Start: 0, End: 1, BaseName: "X", Dir: t.TempDir(),
	})
	require.NoError(t, err)

	lines := readLines(t, res.Path)
	require.Len(t, lines, 2)
	assert.Equal(t, domain.TagID("z", ids[0])+";semi colon new  quoted ", lines[1])

	for _, line := range lines[1:] {
		fields := strings.Split(line, ";")
		require.Len(t, fields, 2)
		assert.NotContains(t, fields[1], "\"")

		// Tag round-trip
		id, err := domain.UntagID(fields[0])
		require.NoError(t, err)
		assert.Equal(t, ids[0], id)
	}
}

func TestExportService_InvalidIdentifier(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "c", "hello")
	svc := NewExportService(store, nil, nil)
	dir := t.TempDir()

	for _, ident := range []string{"", "ab", ";", ",", "\"", "\n", "\r"} {
		_, err := svc.Export(context.Background(), driving.ExportRequest{
			Collection: "c", Identifier: ident, Start: 0, End: 1, BaseName: "X", Dir: dir,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may be created before validation passes")
}

func TestExportService_NegativeStart(t *testing.T) {
	svc := NewExportService(memory.NewRecordStore(), nil, nil)

	_, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "c", Identifier: "a", Start: -1, End: 1, BaseName: "X", Dir: t.TempDir(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestExportService_UnwritableDir(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "c", "a")
	svc := NewExportService(store, nil, nil)

	_, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "c", Identifier: "a", Start: 0, End: 1, BaseName: "X",
		Dir: filepath.Join(t.TempDir(), "does", "not", "exist"),
	})
	assert.ErrorIs(t, err, domain.ErrIOFailure)
}

// failingRecordStore fails every query.
type failingRecordStore struct {
	*memory.RecordStore
}

func (failingRecordStore) Count(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

func TestExportService_SourceUnavailable(t *testing.T) {
	svc := NewExportService(failingRecordStore{memory.NewRecordStore()}, nil, nil)

	_, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "c", Identifier: "a", Start: 0, End: 1, BaseName: "X", Dir: t.TempDir(),
	})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestExportService_NilStore(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	_, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "c", Identifier: "a", Start: 0, End: 1, BaseName: "X", Dir: t.TempDir(),
	})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestExportService_CancelledKeepsHeader(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "c", "a", "b")
	svc := NewExportService(store, nil, nil)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Export(ctx, driving.ExportRequest{
		Collection: "c", Identifier: "a", Start: 0, End: 2, BaseName: "X", Dir: dir,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"id;text"}, readLines(t, filepath.Join(dir, "X_0_2.csv")))
}

func TestExportService_ReportsProgress(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "c", "a", "b", "c")
	progress := &recordingProgress{}
	svc := NewExportService(store, nil, progress)

	_, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "c", Identifier: "a", Start: 0, End: 3, BaseName: "X", Dir: t.TempDir(),
	})
	require.NoError(t, err)

	require.Len(t, progress.tasks, 1)
	assert.Equal(t, 3, progress.tasks[0].total)
	assert.Equal(t, 3, progress.tasks[0].count)
	assert.True(t, progress.tasks[0].done)
}

func TestExportService_RecordsRun(t *testing.T) {
	store := memory.NewRecordStore()
	seedRecords(t, store, "c", "a", "b")
	runs := memory.NewRunStore()
	svc := NewExportService(store, runs, nil)

	res, err := svc.Export(context.Background(), driving.ExportRequest{
		Collection: "c", Identifier: "a", Start: 0, End: 5, BaseName: "X", Dir: t.TempDir(),
	})
	require.NoError(t, err)

	history, err := runs.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RunKindExport, history[0].Kind)
	assert.Equal(t, res.Path, history[0].File)
	assert.Equal(t, 2, history[0].Processed)
	assert.True(t, history[0].Succeeded())
	assert.NotEmpty(t, history[0].ID)
}
