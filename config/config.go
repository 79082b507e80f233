// Package config 定义命令行使用的配置，由 viper 从 folio.yaml、FOLIO_ 环境变量与命令行参数合并而来。
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FOLIO_RENDER_BACKEND.
const EnvPrefix = "FOLIO"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Render backends.
const (
	BackendCanvas = "canvas"
	BackendFPDF   = "fpdf"
	BackendTrace  = "trace"
)

// Config is the top level configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	AddSource  bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// RenderConfig 描述一次渲染使用的资源与输出方式。
// 注意 viper 会把映射的键转成小写，配置文件中的字体与图片键因此按小写匹配。
type RenderConfig struct {
	Backend  string            `mapstructure:"backend" yaml:"backend"`
	Parallel bool              `mapstructure:"parallel" yaml:"parallel"`
	Styles   string            `mapstructure:"styles" yaml:"styles"`
	Fonts    map[string]string `mapstructure:"fonts" yaml:"fonts"`
	Images   map[string]string `mapstructure:"images" yaml:"images"`
	Debug    string            `mapstructure:"debug" yaml:"debug"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	v.SetDefault("render.backend", BackendCanvas)
	v.SetDefault("render.parallel", false)
	v.SetDefault("render.fonts", map[string]string{"default": "builtin:go-regular"})
	v.SetDefault("render.images", map[string]string{})
}

// BindEnv lets FOLIO_ prefixed environment variables override any key that
// has a default.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// NewDefaultConfig returns the configuration built from defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Render.Backend {
	case BackendCanvas, BackendFPDF, BackendTrace:
	default:
		return fmt.Errorf("render.backend must be one of %s, %s, %s; got %q",
			BackendCanvas, BackendFPDF, BackendTrace, c.Render.Backend)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json; got %q", c.Logger.Format)
	}
	return nil
}
