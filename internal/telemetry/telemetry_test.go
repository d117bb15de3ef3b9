package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/essayfb/internal/model"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), model.TelemetryConfig{}, "test", nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_Stdout(t *testing.T) {
	shutdown, err := Setup(context.Background(), model.TelemetryConfig{Enabled: true, Exporter: "stdout", SampleRatio: 1}, "test", nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_UnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), model.TelemetryConfig{Enabled: true, Exporter: "carrier-pigeon"}, "test", nil)
	assert.Error(t, err)
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-2))
	assert.Equal(t, 0.25, clampRatio(0.25))
	assert.Equal(t, 1.0, clampRatio(7))
}
