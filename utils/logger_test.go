package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithFieldAddsFieldWithoutChangingParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWriterLogger(&buf, false)

	child := parent.WithField("run_id", 42)
	child.Info("снимок сохранен")
	assert.Contains(t, buf.String(), "run_id=42")
	assert.Contains(t, buf.String(), "снимок сохранен")

	buf.Reset()
	parent.Info("без поля")
	assert.NotContains(t, buf.String(), "run_id")
}

func TestDebugRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf, false).Debug("скрыто")
	assert.Empty(t, buf.String())

	NewWriterLogger(&buf, true).Debug("видно")
	assert.Contains(t, buf.String(), "видно")
}
