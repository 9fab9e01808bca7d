package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("requires prefix and writer", func(t *testing.T) {
		_, err := New("", "", &bytes.Buffer{})
		assert.Error(t, err)
		_, err = New("APP", "", nil)
		assert.Error(t, err)
	})

	t.Run("writes prefix, level and message", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("GEN", "", &buf)
		require.NoError(t, err)

		l.Info("started")
		l.Warning("slow")
		l.Errorf("failed %d", 3)

		out := buf.String()
		assert.Contains(t, out, "[GEN]")
		assert.Contains(t, out, "[INFO]")
		assert.Contains(t, out, "started")
		assert.Contains(t, out, "[WARN]")
		assert.Contains(t, out, "[ERROR]")
		assert.Contains(t, out, "failed 3")
	})
}
