package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/set-night/cookieai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "user_id", "42")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "42", line["user_id"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug", "text")
	require.NoError(t, err)

	logger.Debug("frame extracted", "position", 1.5)

	assert.Contains(t, buf.String(), "frame extracted")
}

func TestNew_RejectsUnknown(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)

	_, err = logging.New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
