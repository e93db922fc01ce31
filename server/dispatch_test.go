package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodRegistry(t *testing.T) {
	registry := GetMethodRegistry()

	for _, method := range []string{"status", "sessions", "server.shutdown"} {
		assert.Contains(t, registry, method)
	}
}

func TestExecute_Status(t *testing.T) {
	result, err := Execute("status", nil)
	require.NoError(t, err)

	status, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, Version, status["version"])
	assert.Equal(t, 0, status["sessions"])
}

func TestExecute_Sessions(t *testing.T) {
	result, err := Execute("sessions", nil)
	require.NoError(t, err)

	payload, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Empty(t, payload["sessions"])
}

func TestExecute_UnknownMethod(t *testing.T) {
	_, err := Execute("does.not.exist", nil)
	assert.ErrorIs(t, err, errMethodNotFound)
}
