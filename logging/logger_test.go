package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestAddAndRemoveWriter will test Logger.AddWriter and Logger.RemoveWriter to ensure that they work as expected.
func TestAddAndRemoveWriter(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, false)

	var buf1, buf2 bytes.Buffer
	logger.AddWriter(&buf1, UNSTRUCTURED)
	assert.Len(t, logger.writers, 1)

	// Adding the same writer again is a no-op.
	logger.AddWriter(&buf1, UNSTRUCTURED)
	assert.Len(t, logger.writers, 1)

	logger.AddWriter(&buf2, UNSTRUCTURED)
	assert.Len(t, logger.writers, 2)

	logger.RemoveWriter(&buf1)
	assert.Len(t, logger.writers, 1)
}

// TestSubLoggerInheritsLevel verifies that NewSubLogger carries over the parent's level.
func TestSubLoggerInheritsLevel(t *testing.T) {
	logger := NewLogger(zerolog.WarnLevel, false)
	sub := logger.NewSubLogger("module", "testing")
	assert.Equal(t, zerolog.WarnLevel, sub.Level())
}

// TestSetLevelUpdatesBothLoggers verifies SetLevel propagates to both the console and multi loggers.
func TestSetLevelUpdatesBothLoggers(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, false)
	logger.SetLevel(zerolog.ErrorLevel)
	assert.Equal(t, zerolog.ErrorLevel, logger.Level())
	assert.Equal(t, zerolog.ErrorLevel, logger.consoleLogger.GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, logger.multiLogger.GetLevel())
}

// TestConstructorWriterReceivesMessages verifies that logging to a writer handed to NewLogger produces
// (structured) output containing the logged message.
func TestConstructorWriterReceivesMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)

	logger.Info("hello world")

	assert.True(t, strings.Contains(buf.String(), "hello world"))
}
