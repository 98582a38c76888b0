package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Environment: "production", ServiceName: "backoffice", Output: &buf})

	log.Info().Int64("matter_id", 7).Msg("Matter created")
	log.Debug().Msg("dropped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "backoffice", line["service"])
	assert.Equal(t, "Matter created", line["message"])
	assert.EqualValues(t, 7, line["matter_id"])
}

func TestComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Environment: "production", Output: &buf}).Component("http")

	log.Warn().Msg("slow")

	assert.Contains(t, buf.String(), `"component":"http"`)
}
