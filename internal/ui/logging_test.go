package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewLoggerTo(&buf, false)

	l.Debugf("hidden %d", 1)
	l.Infof("seed %s", "a")
	l.Warnf("slow\n")
	l.Errorf("failed: %v", assert.AnError)

	assert.Equal(t,
		"[INFO] seed a\n[WARN] slow\n[ERROR] failed: "+assert.AnError.Error()+"\n",
		buf.String())

	buf.Reset()
	l.Debug = true
	l.Debugf("shown")
	assert.Equal(t, "[DEBUG] shown\n", buf.String())
}
