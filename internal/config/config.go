package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Logo      LogoConfig      `yaml:"logo" mapstructure:"logo"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// PipelineConfig configures the batch enrichment run.
type PipelineConfig struct {
	DumpsDir             string `yaml:"dumps_dir" mapstructure:"dumps_dir"`
	OutputDir            string `yaml:"output_dir" mapstructure:"output_dir"`
	MaxConcurrentDomains int    `yaml:"max_concurrent_domains" mapstructure:"max_concurrent_domains"`
	MinTextLength        int    `yaml:"min_text_length" mapstructure:"min_text_length"`
	MaxTextLength        int    `yaml:"max_text_length" mapstructure:"max_text_length"`
}

// LogoConfig configures logo resolution network probes.
type LogoConfig struct {
	ProbeTimeoutSecs int     `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	ProbesPerSecond  float64 `yaml:"probes_per_second" mapstructure:"probes_per_second"`
	UserAgent        string  `yaml:"user_agent" mapstructure:"user_agent"`
	ClearbitBaseURL  string  `yaml:"clearbit_base_url" mapstructure:"clearbit_base_url"`
	FaviconBaseURL   string  `yaml:"favicon_base_url" mapstructure:"favicon_base_url"`
}

// AnthropicConfig holds settings for the optional LLM augmentation path.
// When Key is empty the pipeline runs fully offline.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// StoreConfig configures the optional run/profile persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the lookup API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("pipeline.dumps_dir", "data/input/website_dumps")
	v.SetDefault("pipeline.output_dir", "data/output")
	v.SetDefault("pipeline.max_concurrent_domains", 5)
	v.SetDefault("pipeline.min_text_length", 50)
	v.SetDefault("pipeline.max_text_length", 3000)
	v.SetDefault("logo.probe_timeout_secs", 3)
	v.SetDefault("logo.probes_per_second", 4)
	v.SetDefault("logo.user_agent", "intel-cli/1.0")
	v.SetDefault("logo.clearbit_base_url", "https://logo.clearbit.com")
	v.SetDefault("logo.favicon_base_url", "https://www.google.com/s2/favicons")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 512)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "intel.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
