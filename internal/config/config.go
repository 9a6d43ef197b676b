package config

import (
	"fmt"
	"time"

	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"`  // in minutes
	MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"` // in minutes
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	AuditTopic string   `mapstructure:"audit_topic"`
}

// PolicyConfig carries the tunable thresholds of the rule policies. Scoring
// weights and budget boundaries are deliberately NOT configurable; they are
// contractual constants shared with reporting.
// PolicyConfig 保存规则策略的可调阈值。评分权重和预算边界是与报表共享的
// 契约常量，故意不可配置。
type PolicyConfig struct {
	// RelatedIncidentThreshold gates low-severity feedback on a run of
	// related incidents.
	RelatedIncidentThreshold int `mapstructure:"related_incident_threshold"`

	// RelatedIncidentLookbackDays bounds the window in which related
	// incidents are counted.
	RelatedIncidentLookbackDays int `mapstructure:"related_incident_lookback_days"`

	// GovernanceCacheTTL bounds how long a resolved governance scope may be
	// served from cache.
	GovernanceCacheTTL time.Duration `mapstructure:"governance_cache_ttl"`

	// WorkflowLockTTL bounds how long a cross-process approval lock is held
	// when its owner dies without releasing it.
	WorkflowLockTTL time.Duration `mapstructure:"workflow_lock_ttl"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	Environment    string  `mapstructure:"environment"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf(errors.CodeInvalidArgument, "server.port %d out of range", c.Server.Port)
	}
	if c.Policy.RelatedIncidentThreshold < 1 {
		return errors.New(errors.CodeInvalidArgument, "policy.related_incident_threshold must be at least 1")
	}
	if c.Policy.RelatedIncidentLookbackDays < 1 {
		return errors.New(errors.CodeInvalidArgument, "policy.related_incident_lookback_days must be at least 1")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New(errors.CodeInvalidArgument, "kafka.brokers required when kafka is enabled")
	}
	return nil
}

// Defaults returns a Config populated with the built-in policy thresholds.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0", Port: 8080, Environment: "development",
			ReadTimeout: 15, WriteTimeout: 15, IdleTimeout: 60,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, SSLMode: "disable",
			MaxConns: 20, MinConns: 2, MaxConnLifetime: 30, MaxConnIdleTime: 10,
		},
		Redis: RedisConfig{Address: "localhost:6379", PoolSize: 10},
		Kafka: KafkaConfig{AuditTopic: "grc.audit.events"},
		Policy: PolicyConfig{
			RelatedIncidentThreshold:    constants.DefaultRelatedIncidentThreshold,
			RelatedIncidentLookbackDays: constants.DefaultRelatedIncidentLookbackDays,
			GovernanceCacheTTL:          constants.GovernanceCacheTTL,
			WorkflowLockTTL:             constants.WorkflowLockTTL,
		},
		Log:     LogConfig{Level: "info", Format: "json", OutputPath: "stdout"},
		Tracing: TracingConfig{ServiceName: "grc-policy", Environment: "development", SamplingRate: 1.0},
	}
}
