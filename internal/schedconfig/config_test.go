package schedconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coursework/rtkernel/internal/schedcore"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 64, cfg.NProc)
	assert.Equal(t, schedcore.RMCountPIDProxy, cfg.RMCountMode)
	assert.False(t, cfg.EnforceBudget)
	assert.Equal(t, 10*time.Millisecond, cfg.TickInterval)
}

func TestLoadRespectsEnv(t *testing.T) {
	t.Setenv("N_PROC", "32")
	t.Setenv("RM_COUNT_MODE", "actual")
	t.Setenv("ENFORCE_BUDGET", "true")
	t.Setenv("TICK_INTERVAL", "5ms")

	cfg := Load()
	assert.Equal(t, 32, cfg.NProc)
	assert.Equal(t, schedcore.RMCountActual, cfg.RMCountMode)
	assert.True(t, cfg.EnforceBudget)
	assert.Equal(t, 5*time.Millisecond, cfg.TickInterval)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("N_PROC", "not-a-number")
	assert.Equal(t, 64, getEnvInt("N_PROC", 64))
}
