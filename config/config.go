// Package config loads and validates checker configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. ZOMBIECHECK_WORKERS.
const EnvPrefix = "ZOMBIECHECK"

// DefaultUserAgent identifies the checker to remote servers.
const DefaultUserAgent = "zombiecheck/1.0 (+https://github.com/lukemcguire/zombiecheck)"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config captures every knob of a checking run.
type Config struct {
	List          bool          `mapstructure:"list"`
	Verbose       bool          `mapstructure:"verbose"`
	Insecure      bool          `mapstructure:"insecure"`
	Workers       int           `mapstructure:"workers"`
	RedirectLimit int           `mapstructure:"redirect_limit"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	Encoding      string        `mapstructure:"encoding"`
	Unique        bool          `mapstructure:"unique"`
	RespectRobots bool          `mapstructure:"respect_robots"`
	RateLimit     float64       `mapstructure:"rate_limit"`
	AdaptiveRate  bool          `mapstructure:"adaptive_rate"`
	Format        string        `mapstructure:"format"`
	Progress      bool          `mapstructure:"progress"`
	MetricsFile   string        `mapstructure:"metrics_file"`
	Debug         bool          `mapstructure:"debug"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"list":           "list",
	"verbose":        "verbose",
	"insecure":       "insecure",
	"workers":        "workers",
	"redirect-limit": "redirect_limit",
	"timeout":        "timeout",
	"user-agent":     "user_agent",
	"encoding":       "encoding",
	"unique":         "unique",
	"respect-robots": "respect_robots",
	"rate-limit":     "rate_limit",
	"adaptive-rate":  "adaptive_rate",
	"format":         "format",
	"progress":       "progress",
	"metrics-file":   "metrics_file",
	"debug":          "debug",
}

// RegisterFlags defines the checker flags on fs with the built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP("list", "l", false, "list extracted links without checking them")
	fs.BoolP("verbose", "v", false, "also report links that resolved OK")
	fs.Bool("insecure", false, "skip TLS certificate verification")
	fs.IntP("workers", "w", 8, "number of concurrent checks")
	fs.Int("redirect-limit", 10, "maximum redirects followed per link")
	fs.Duration("timeout", 10*time.Second, "per-request timeout")
	fs.String("user-agent", DefaultUserAgent, "User-Agent header sent with requests")
	fs.String("encoding", "", "input text encoding (default from locale)")
	fs.BoolP("unique", "u", false, "check and report each distinct link once")
	fs.Bool("respect-robots", false, "skip links disallowed by robots.txt")
	fs.Float64("rate-limit", 0, "requests per second across all workers (0 = unlimited)")
	fs.Bool("adaptive-rate", false, "adjust the rate limit to observed response times")
	fs.StringP("format", "f", FormatText, "output format: text, json or csv")
	fs.Bool("progress", false, "show an interactive progress view")
	fs.String("metrics-file", "", "write Prometheus metrics to this textfile")
	fs.Bool("debug", false, "enable debug logging")
}

// BindFlags binds every flag defined by RegisterFlags into v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load builds a Config from defaults, an optional file, the environment,
// and any flags already bound to v. A nil v gets a fresh Viper instance.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("list", false)
	v.SetDefault("verbose", false)
	v.SetDefault("insecure", false)
	v.SetDefault("workers", 8)
	v.SetDefault("redirect_limit", 10)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("encoding", "")
	v.SetDefault("unique", false)
	v.SetDefault("respect_robots", false)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("adaptive_rate", false)
	v.SetDefault("format", FormatText)
	v.SetDefault("progress", false)
	v.SetDefault("metrics_file", "")
	v.SetDefault("debug", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	if c.RedirectLimit < 0 {
		return errors.New("redirect_limit must be >= 0")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	if c.RateLimit < 0 {
		return errors.New("rate_limit must be >= 0")
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("format must be one of text, json, csv (got %q)", c.Format)
	}
	if c.Progress && c.Format != FormatText {
		return errors.New("progress cannot be combined with json or csv output")
	}
	return nil
}
