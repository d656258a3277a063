package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		logger = zap.NewNop().Sugar()
		mu.Unlock()
	})

	assert.NotNil(t, L())
	assert.Error(t, Init("development", "loud"))
	assert.NoError(t, Init("production", "warn"))
	assert.NoError(t, Init("development", ""))
	assert.NotPanics(t, func() { L().Infof("[TEST] logger ready") })
}
