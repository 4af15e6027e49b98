// Package config loads the process-wide configuration.
//
// Configuration is read once at startup into an immutable Config value that
// is passed by injection into the components that need it. There is no
// mutable global — after Load returns, nothing re-reads the environment.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all settings for the server process.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	JWT struct {
		Secret        string
		Algorithm     string
		ExpireMinutes int `mapstructure:"expire_minutes"`
	}
}

// Load reads configuration from environment variables (prefix WEBHOOKHUB_),
// an optional config.yaml in the working directory, and a .env file.
//
// Missing required security settings are a startup failure, not a warning:
// running without a signing secret or with a non-positive token lifetime
// would silently issue insecure credentials.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("WEBHOOKHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.path", "data/webhookhub.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.expire_minutes", 0)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // config file is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required (set WEBHOOKHUB_JWT_SECRET)")
	}
	if c.JWT.Algorithm != "HS256" {
		return fmt.Errorf("config: unsupported jwt.algorithm %q (only HS256)", c.JWT.Algorithm)
	}
	if c.JWT.ExpireMinutes <= 0 {
		return fmt.Errorf("config: jwt.expire_minutes must be positive (set WEBHOOKHUB_JWT_EXPIRE_MINUTES)")
	}
	return nil
}

// loadDotEnv applies KEY=VALUE lines from an optional .env file without
// overriding variables already set in the environment.
func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:eq])
		value := strings.Trim(strings.TrimSpace(line[eq+1:]), `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
