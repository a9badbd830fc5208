package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STORYREEL_API_BASE_URL.
const EnvPrefix = "STORYREEL"

// Config holds runtime settings for the CLI app.
type Config struct {
	APIBaseURL        string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	Host              string        `mapstructure:"host" yaml:"host"`
	SaaSDomain        string        `mapstructure:"saas_domain" yaml:"saas_domain"`
	BasePath          string        `mapstructure:"base_path" yaml:"base_path"`
	DBPath            string        `mapstructure:"db_path" yaml:"db_path"`
	LogFile           string        `mapstructure:"log_file" yaml:"log_file"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	SeedCacheTTL      time.Duration `mapstructure:"seed_cache_ttl" yaml:"seed_cache_ttl"`
	Lookahead         int           `mapstructure:"lookahead" yaml:"lookahead"`
	EndBanner         time.Duration `mapstructure:"end_banner" yaml:"end_banner"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("saas_domain", "mojonetwork.in")
	v.SetDefault("base_path", "")
	v.SetDefault("db_path", "storyreel.db")
	v.SetDefault("log_file", defaultLogFile())
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("requests_per_second", 2.0)
	v.SetDefault("seed_cache_ttl", time.Minute)
	v.SetDefault("lookahead", 2)
	v.SetDefault("end_banner", 4*time.Second)
}

// New returns a viper instance wired for storyreel: defaults, STORYREEL_*
// environment overrides and, when it exists, the given or default config file.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	_ = v.BindEnv("api_base_url")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".storyreel"))
	}
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg, err := Decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads the configuration without validating it.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("STORYREEL_API_BASE_URL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("APIBaseURL must be an http(s) URL: %s", c.APIBaseURL)
	}
	if c.Host == "" {
		return errors.New("Host is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("BasePath must start with '/': %s", c.BasePath)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	if c.Lookahead < 1 {
		return fmt.Errorf("Lookahead must be at least 1: %d", c.Lookahead)
	}
	if c.EndBanner <= 0 {
		return fmt.Errorf("EndBanner must be positive: %s", c.EndBanner)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RequestTimeout must be positive: %s", c.RequestTimeout)
	}
	return nil
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "storyreel.log")
	}
	return filepath.Join(home, ".storyreel", "logs", fmt.Sprintf("storyreel-%s.log", time.Now().Format(time.DateOnly)))
}
