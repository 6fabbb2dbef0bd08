package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressHandle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pm := NewProgressManager(&buf)

	h := pm.Register("Acme Mutual")
	h.Update(1, 1, 2048, 3)
	h.Update(2, 0, 4096, 5)
	h.MarkDone()
	h.MarkDone()
	h.Update(9, 9, 1, 1)

	aborted := pm.Register("Broken")
	aborted.Abort()

	pm.Close()

	assert.Equal(t, int64(2), h.total)
	assert.Equal(t, int64(5), h.policies.Load())
	assert.Contains(t, buf.String(), "Acme Mutual")
}
