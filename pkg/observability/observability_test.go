package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledProviderIsNoop(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)

	ctx, finish := p.StartOperation(context.Background(), "align")
	assert.Equal(t, context.Background(), ctx)
	assert.NotPanics(t, func() { finish(errors.New("boom")) })
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewNilConfigUsesDefaults(t *testing.T) {
	p, err := New(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.config.Enabled)
	assert.Equal(t, "iraqaf-compliance-engine", p.config.ServiceName)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
}
