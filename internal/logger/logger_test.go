package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersSafeBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		WithRequestID("req-1").Info("written before Init")
		Info("written before Init")
	})
}

func TestInit(t *testing.T) {
	require.NoError(t, Init("development"))
	assert.NotNil(t, Logger)

	require.NoError(t, Init("production"))
	assert.NotNil(t, Logger)
}

func TestWithRequestID(t *testing.T) {
	require.NoError(t, Init("production"))

	assert.NotNil(t, WithRequestID(""))
	assert.NotNil(t, WithRequestID("req-1"))
}
