// Package schedconfig loads kernel tunables from the environment: a
// loadConfig/getEnv pattern rather than a config-file parser.
package schedconfig

import (
	"os"
	"strconv"
	"time"

	"github.com/coursework/rtkernel/internal/schedcore"
)

// Tunables holds the process-table knobs that are deployment decisions
// rather than fixed constants.
type Tunables struct {
	NProc         int
	RMCountMode   schedcore.RMCountMode
	EnforceBudget bool
	TickInterval  time.Duration
}

// Config is the full set of environment-derived settings for cmd/kernel.
type Config struct {
	Tunables

	Port        string
	NATSURL     string
	DatabaseURL string
	RedisURL    string
	EtcdURL     string
	JWTSecret   string
}

// Load reads Config from the environment, following a defaults-then-getenv
// shape.
func Load() *Config {
	return &Config{
		Tunables: Tunables{
			NProc:         getEnvInt("N_PROC", 64),
			RMCountMode:   parseRMCountMode(getEnv("RM_COUNT_MODE", "pid_proxy")),
			EnforceBudget: getEnvBool("ENFORCE_BUDGET", false),
			TickInterval:  getEnvDuration("TICK_INTERVAL", 10*time.Millisecond),
		},
		Port:        getEnv("PORT", "8080"),
		NATSURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		DatabaseURL: getEnv("AUDIT_DSN", ""),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		EtcdURL:     getEnv("ETCD_ENDPOINTS", "localhost:2379"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseRMCountMode(val string) schedcore.RMCountMode {
	if val == "actual" {
		return schedcore.RMCountActual
	}
	return schedcore.RMCountPIDProxy
}
