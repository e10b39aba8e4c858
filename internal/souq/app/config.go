package app

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "SOUQ_"
	envConfigFile = "SOUQ_CONFIG_FILE"
)

type Config struct {
	APIBaseURL string        `koanf:"api_base_url" validate:"required,url"` // Marketplace REST API root
	APITimeout time.Duration `koanf:"api_timeout"  validate:"gt=0"`         // Per-request timeout (default: 15s)
	Language   string        `koanf:"language"     validate:"oneof=en ar"`  // Accept-Language and fallback messages (default: en)

	DatabaseFile string `koanf:"database_file" validate:"required"` // SQLite file holding the session (default: ./souq.db)

	PollInterval         time.Duration `koanf:"poll_interval"          validate:"gt=0"`         // Auth change notifier interval (default: 60s)
	ProfileRetryAttempts int           `koanf:"profile_retry_attempts" validate:"min=1,max=10"` // Profile fetch attempts (default: 3)
	ProfileRetryInitial  time.Duration `koanf:"profile_retry_initial"  validate:"gt=0"`         // First retry delay (default: 500ms)
	LogoutTimeout        time.Duration `koanf:"logout_timeout"         validate:"gt=0"`         // Best-effort server logout (default: 5s)
	LoginRatePerMinute   int           `koanf:"login_rate_per_minute"  validate:"min=1"`        // Gateway login attempts per IP and identifier (default: 10)

	Env                 string        `koanf:"env"`                                               // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        `koanf:"log_level"  validate:"oneof=debug info warn error"` // (default: info)
	LogFormat           string        `koanf:"log_format" validate:"oneof=json text"`             // (default: json)
	Port                int           `koanf:"port"       validate:"min=1,max=65535"`             // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration `koanf:"shutdown_grace_period" validate:"gt=0"`             // Graceful shutdown timeout (default: 10s)
}

// DefaultConfig returns the values used for anything not configured.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:           "http://localhost:8000/api",
		APITimeout:           15 * time.Second,
		Language:             "en",
		DatabaseFile:         "souq.db",
		PollInterval:         60 * time.Second,
		ProfileRetryAttempts: 3,
		ProfileRetryInitial:  500 * time.Millisecond,
		LogoutTimeout:        5 * time.Second,
		LoginRatePerMinute:   10,
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
	}
}

// LoadConfig layers defaults, the optional YAML file named by
// SOUQ_CONFIG_FILE and SOUQ_* environment variables, in that order.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// SOUQ_API_BASE_URL -> api_base_url
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			if key == envConfigFile {
				return "", nil
			}
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once, by its config key.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}
