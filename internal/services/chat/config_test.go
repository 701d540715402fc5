// File: internal/services/chat/config_test.go
package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampTopK(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.ClampTopK(0), "zero falls back to the configured default")
	assert.Equal(t, 1, cfg.ClampTopK(-3))
	assert.Equal(t, 7, cfg.ClampTopK(7))
	assert.Equal(t, 20, cfg.ClampTopK(50))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.TopK = 21
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxContextTokens = 0
	assert.Error(t, cfg.Validate())
}
