// internal/workers/application/index-submission/config.go
package indexsubmission

import "time"

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(index string) *Config {
	return &Config{
		Index:   index,
		Timeout: 10 * time.Second,
	}
}
