// Package config loads application settings from defaults, an optional YAML
// file and HABITBLOOM_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/utils"
)

type Config struct {
	DBPath   string       `koanf:"db_path" validate:"required"`
	Debug    bool         `koanf:"debug"`
	LogLevel string       `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Timezone string       `koanf:"timezone" validate:"omitempty,timezone"`
	Server   ServerConfig `koanf:"server"`
	Notify   NotifyConfig `koanf:"notify"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
	// Token overrides the keyring token when set.
	Token      string        `koanf:"token"`
	RateLimit  int           `koanf:"rate_limit" validate:"min=0"`
	RateWindow time.Duration `koanf:"rate_window" validate:"min=0"`
}

type NotifyConfig struct {
	Tray    bool `koanf:"tray"`
	Console bool `koanf:"console"`
}

// sections are the nested keys env variables can address, e.g.
// HABITBLOOM_SERVER_ADDR -> server.addr.
var sections = []string{"server", "notify"}

func Default() Config {
	return Config{
		DBPath:   utils.ExpandPath(constants.DefaultConfigPath),
		LogLevel: "warn",
		Server: ServerConfig{
			Addr:       constants.DefaultServerAddr,
			RateLimit:  constants.DefaultRateLimit,
			RateWindow: constants.DefaultRateLimitWindow,
		},
		Notify: NotifyConfig{Tray: true, Console: true},
	}
}

// DefaultFile is the config file looked up when none is given.
func DefaultFile() string {
	return filepath.Join(filepath.Dir(utils.ExpandPath(constants.DefaultConfigPath)), constants.ConfigFileName)
}

// Load builds the configuration. An explicit path must exist; the default
// file is optional.
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultFile()
	}
	path = utils.ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(constants.EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.DBPath = utils.ExpandPath(cfg.DBPath)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, constants.EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return err
}
