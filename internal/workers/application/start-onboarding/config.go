// internal/workers/application/start-onboarding/config.go
package startonboarding

import "time"

type Config struct {
	ProcessID string
	Timeout   time.Duration
}

func LoadConfig(processID string) *Config {
	return &Config{
		ProcessID: processID,
		Timeout:   10 * time.Second,
	}
}
