package util

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuman(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1 << 10, "1.00 KB"},
		{1536, "1.50 KB"},
		{2 << 20, "2.00 MB"},
		{1 << 30, "1.00 GB"},
		{3 << 40, "3072.00 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Human(tt.in), "Human(%d)", tt.in)
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, WriteJSON(path, []map[string]any{{"source_url": "https://x.test", "policies": []string{}}}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"policies\": [],\n    \"source_url\": \"https://x.test\"\n  }\n]\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteJSON_Unmarshalable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	require.Error(t, WriteJSON(path, func() {}))

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInterruptContext_CancelReleases(t *testing.T) {
	t.Parallel()

	ctx, cancel := InterruptContext(context.Background())
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
