// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Camunda       CamundaConfig      `mapstructure:"camunda"`
	Followups     FollowupConfig     `mapstructure:"followups"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	RateLimit     RateLimitConfig    `mapstructure:"rate_limit"`
	Tracing       TracingConfig      `mapstructure:"tracing"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"`
}

// StorageConfig selects where applicant submissions are written.
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"` // "supabase" or "postgres"
	Table    string         `mapstructure:"table"`
	Timeout  int            `mapstructure:"timeout"` // milliseconds, per insert
	Supabase SupabaseConfig `mapstructure:"supabase"`
}

type SupabaseConfig struct {
	URL         string `mapstructure:"url"`
	ServiceRole string `mapstructure:"service_role"`
}

// Configured reports whether both the project URL and the service role key are set.
func (s SupabaseConfig) Configured() bool {
	return s.URL != "" && s.ServiceRole != ""
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CamundaConfig struct {
	BrokerAddress string `mapstructure:"broker_address"`
	ProcessID     string `mapstructure:"process_id"`
	MaxJobsActive int    `mapstructure:"max_jobs_active"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

// FollowupConfig toggles the best-effort tasks run after a stored submission.
type FollowupConfig struct {
	Timeout         int  `mapstructure:"timeout"` // milliseconds
	NotifyEnabled   bool `mapstructure:"notify_enabled"`
	IndexEnabled    bool `mapstructure:"index_enabled"`
	WorkflowEnabled bool `mapstructure:"workflow_enabled"`
}

// NotificationConfig holds settings for the notify-recruiters task.
type NotificationConfig struct {
	AWSRegion        string `mapstructure:"aws_region"`
	FromEmail        string `mapstructure:"from_email"`
	RecruiterEmail   string `mapstructure:"recruiter_email"`
	ConfirmApplicant bool   `mapstructure:"confirm_applicant"`
	SNSTopicARN      string `mapstructure:"sns_topic_arn"`
}

type RateLimitConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Backend  string `mapstructure:"backend"` // "memory" or "redis"
	Requests int    `mapstructure:"requests"`
	Window   int    `mapstructure:"window"` // milliseconds
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
