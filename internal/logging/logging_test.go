package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level, FormatText, &bytes.Buffer{})
		require.NoError(t, err)
		want, _ := logrus.ParseLevel(level)
		assert.Equal(t, want, logger.GetLevel())
	}

	_, err := New("loud", FormatText, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", FormatJSON, &buf)
	require.NoError(t, err)

	logger.WithField("port", "/dev/ttyACM0").Info("connected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "connected", entry["msg"])
	assert.Equal(t, "/dev/ttyACM0", entry["port"])

	buf.Reset()
	logger, err = New("info", "", &buf)
	require.NoError(t, err)
	logger.Info("plain")
	assert.Contains(t, buf.String(), `msg=plain`)

	_, err = New("info", "xml", &buf)
	assert.Error(t, err)
}

func TestNewForwarder(t *testing.T) {
	var got []*logrus.Entry
	logger, err := NewForwarder("info", func(e *logrus.Entry) { got = append(got, e) })
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.WithField("response", "OK").Info("device response")
	logger.Warn("no complete response before timeout")

	require.Len(t, got, 2)
	assert.Equal(t, "device response", got[0].Message)
	assert.Equal(t, "OK", got[0].Data["response"])
	assert.Equal(t, logrus.WarnLevel, got[1].Level)
}
