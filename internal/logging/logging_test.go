package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLinesAreEmitted(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer log.SetOutput(orig)

	l := Configure(0, false)
	l.Attempting("remove chunk at 0-4")
	l.Success("remove chunk at 0-4")
	l.Failure("remove chunk at 4-8")
	l.Summary(10, 2, true)

	out := buf.String()
	assert.Contains(t, out, "Attempting: remove chunk at 0-4")
	assert.Contains(t, out, "was successful")
	assert.Contains(t, out, "made the file uninteresting")
	assert.Contains(t, out, "=== LITHIUM SUMMARY ===")
}

func TestInfoHiddenUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer log.SetOutput(orig)

	l := Configure(0, false)
	l.Info("hidden detail")
	assert.Empty(t, buf.String())

	l2 := Configure(1, false)
	l2.Info("shown detail")
	assert.Contains(t, buf.String(), "shown detail")
}
