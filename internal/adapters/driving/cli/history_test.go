package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Empty(t *testing.T) {
	newTestEnv(t)

	out, err := runCLI(t, "history", "mydb")

	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryCmd_ListsRuns(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "text")

	_, err := runCLI(t, "export", "mydb", "comments", "a", "0", "5", "X")
	require.NoError(t, err)
	_, err = runCLI(t, "import", "mydb", "comments", "anger", "X")
	require.Error(t, err)

	out, err := runCLI(t, "history", "mydb")

	require.NoError(t, err)
	assert.Contains(t, out, "export")
	assert.Contains(t, out, "reconcile anger")
	assert.Contains(t, out, "failed:")
}
