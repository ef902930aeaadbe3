package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/labelsync/internal/core/domain"
)

func TestRecordService_Load(t *testing.T) {
	store := memory.NewRecordStore()
	svc := NewRecordService(store, nil)
	input := `{"text": "I love this"}

{"text": "semi;colon", "author": "ignored"}
`

	n, err := svc.Load(context.Background(), "comments", strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	count, err := store.Count(context.Background(), "comments")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordService_Load_StopsAtBadLine(t *testing.T) {
	store := memory.NewRecordStore()
	svc := NewRecordService(store, nil)
	input := "{\"text\": \"ok\"}\nnot json\n{\"text\": \"never\"}\n"

	n, err := svc.Load(context.Background(), "comments", strings.NewReader(input))

	assert.ErrorIs(t, err, ErrInvalidRecordLine)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, n)
}

func TestRecordService_Load_MissingText(t *testing.T) {
	svc := NewRecordService(memory.NewRecordStore(), nil)

	_, err := svc.Load(context.Background(), "comments", strings.NewReader(`{"body": "x"}`))

	assert.ErrorIs(t, err, ErrInvalidRecordLine)
}

func TestRecordService_Load_ReportsProgress(t *testing.T) {
	progress := &recordingProgress{}
	svc := NewRecordService(memory.NewRecordStore(), progress)

	_, err := svc.Load(context.Background(), "c", strings.NewReader("{\"text\":\"a\"}\n{\"text\":\"b\"}\n"))

	require.NoError(t, err)
	require.Len(t, progress.tasks, 1)
	assert.Equal(t, 2, progress.tasks[0].count)
	assert.True(t, progress.tasks[0].done)
}

func TestRecordService_Get(t *testing.T) {
	store := memory.NewRecordStore()
	ids := seedRecords(t, store, "comments", "hello")
	svc := NewRecordService(store, nil)

	rec, err := svc.Get(context.Background(), "comments", ids[0])
	require.NoError(t, err)
	assert.Equal(t, "hello", rec.Text)

	_, err = svc.Get(context.Background(), "comments", 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordService_NilStore(t *testing.T) {
	svc := NewRecordService(nil, nil)

	_, err := svc.Load(context.Background(), "c", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
