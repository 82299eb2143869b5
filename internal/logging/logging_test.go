package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	logger, err := New("", "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNewJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("DEBUG", FormatJSON, &buf)
	require.NoError(t, err)

	Component(logger, "monitor").Debug("cycle complete")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "monitor", entry["component"])
	assert.Equal(t, "cycle complete", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewInvalid(t *testing.T) {
	_, err := New("loud", FormatText, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
