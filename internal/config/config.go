package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/design"
)

// EnvPrefix prefixes every environment override, e.g. SHOTCRETE_REQUIRED_FOS
const EnvPrefix = "SHOTCRETE"

// Config holds the process-wide settings. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Philosophy  string  `mapstructure:"philosophy"`
	CodeVersion string  `mapstructure:"code_version"`
	RequiredFoS float64 `mapstructure:"required_fos"`
	Workers     int     `mapstructure:"workers"` // sweep concurrency, 0 = GOMAXPROCS

	Server ServerConfig `mapstructure:"server"`

	// Factor overrides applied over the built-in tables
	Factors []codes.Entry `mapstructure:"factors"`
}

// ServerConfig configures the HTTP adapter
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second per client
	Burst        int           `mapstructure:"burst"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxSteps     int           `mapstructure:"max_steps"` // largest sweep accepted
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("philosophy", string(design.FoS))
	v.SetDefault("code_version", string(codes.DefaultVersion))
	v.SetDefault("required_fos", codes.DefaultRequiredFoS)
	v.SetDefault("workers", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_steps", 200)
}

// Load reads the configuration. Sources, lowest precedence first: defaults,
// the config file (configFile, or shotcrete.yaml in ., ./config and
// $HOME/.shotcrete), the .env files and the process environment.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// existing variables win over .env entries
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("shotcrete")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.shotcrete")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file or environment applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks the selector values
func (c *Config) Validate() error {
	if _, err := design.ParsePhilosophy(c.Philosophy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := codes.ParseVersion(c.CodeVersion); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.RequiredFoS <= 0 {
		return fmt.Errorf("config: required_fos must be > 0, got %g", c.RequiredFoS)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// Table builds the factor table: built-in rows with the overrides applied
func (c *Config) Table() (*codes.Table, error) {
	t, err := codes.Builtin().With(c.Factors...)
	if err != nil {
		return nil, fmt.Errorf("config factors: %w", err)
	}
	return t, nil
}

// Evaluator builds the evaluator shared by every request
func (c *Config) Evaluator() (*design.Evaluator, error) {
	t, err := c.Table()
	if err != nil {
		return nil, err
	}
	ev := design.NewEvaluator(t)
	ev.DefaultFoS = c.RequiredFoS
	return ev, nil
}

// DefaultPhilosophy returns the configured philosophy
func (c *Config) DefaultPhilosophy() design.Philosophy {
	p, _ := design.ParsePhilosophy(c.Philosophy)
	return p
}

// DefaultVersion returns the configured code version
func (c *Config) DefaultVersion() codes.Version {
	v, _ := codes.ParseVersion(c.CodeVersion)
	return v
}
