package config

import (
	"strconv"
	"time"
)

type SecurityConfig interface {
	GetTrialSecret() []byte
	GetTrialLimit() int
	GetTrialTTL() time.Duration
	GetSessionTTL() time.Duration
	GetMaxPages() int
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetTrialSecret returns the HMAC key used to sign the client-held trial
// counter token. Rotating it resets every outstanding anonymous trial.
func (Security) GetTrialSecret() []byte {
	return []byte(GetEnv("TRIAL_SECRET", "dev-trial-secret-change-me"))
}

func (Security) GetTrialLimit() int {
	return getEnvInt("TRIAL_LIMIT", 3)
}

func (Security) GetTrialTTL() time.Duration {
	return time.Duration(getEnvInt("TRIAL_TTL_DAYS", 7)) * 24 * time.Hour
}

func (Security) GetSessionTTL() time.Duration {
	return time.Duration(getEnvInt("SESSION_TTL_DAYS", 30)) * 24 * time.Hour
}

func (Security) GetMaxPages() int {
	return getEnvInt("MAX_PAGES", 10)
}

func getEnvInt(envVar string, defaultValue int) int {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
