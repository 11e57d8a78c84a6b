package domparts

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Log formats
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config is the file form of the engine options.
//
//	log_level: debug
//	log_format: console
//	max_depth: 32
//	metrics:
//	  namespace: myapp
type Config struct {
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`
	MaxDepth  *int          `yaml:"max_depth"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// MetricsConfig configures metric naming. Collectors are only registered
// when a registerer is passed with WithMetrics.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// ParseConfig decodes and validates a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewConfigError(ErrMsgConfigParseFailed, "", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigReadFailed, path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigParseFailed, path, err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
			return NewConfigError(ErrMsgConfigInvalidLevel, "", err)
		}
	}
	switch c.LogFormat {
	case "", LogFormatJSON, LogFormatConsole:
	default:
		return NewConfigError(ErrMsgConfigInvalidFormat, "", nil)
	}
	if c.MaxDepth != nil && *c.MaxDepth < 0 {
		return NewConfigError(ErrMsgConfigInvalidDepth, "", nil)
	}
	return nil
}

// Options converts the configuration into engine options. A logger is only
// built when a log level is set.
func (c *Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var opts []Option
	if c.LogLevel != "" {
		logger, err := c.buildLogger()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLogger(logger))
	}
	if c.MaxDepth != nil {
		opts = append(opts, WithMaxDepth(*c.MaxDepth))
	}
	if c.Metrics.Namespace != "" {
		opts = append(opts, WithMetricsNamespace(c.Metrics.Namespace))
	}
	return opts, nil
}

func (c *Config) buildLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigInvalidLevel, "", err)
	}
	zc := zap.NewProductionConfig()
	if c.LogFormat == LogFormatConsole {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	logger, err := zc.Build()
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigBuildLogger, "", err)
	}
	return logger, nil
}
