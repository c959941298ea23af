package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// Path is the default directory of the json config files.
	Path = "infra/config"
	// EnvPrefix prefixes the environment overrides, e.g. CLUSTER_SWEEP_WORKERS.
	EnvPrefix = "CLUSTER"
)

// Load fills v from <dir>/<key>.json and the environment.
// The current values of v act as defaults. A missing file is not an error.
func Load(dir, key string, v interface{}) error {
	cfg := viper.New()
	cfg.SetEnvPrefix(fmt.Sprintf("%s_%s", EnvPrefix, strings.ToUpper(key)))
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	defaults, err := asMap(v)
	if err != nil {
		return fmt.Errorf("could not read defaults for %s: %w", key, err)
	}
	for k, d := range defaults {
		cfg.SetDefault(k, d)
	}

	file := filepath.Join(dir, fmt.Sprintf("%s.json", key))
	if _, err := os.Stat(file); err == nil {
		cfg.SetConfigFile(file)
		cfg.SetConfigType("json")
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config file %s: %w", file, err)
		}
	} else {
		log.Debug().Str("file", file).Msg("no config file, using defaults")
	}

	if err := cfg.Unmarshal(v); err != nil {
		return fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}
	log.Debug().Str("config", key).Msg("loaded config")
	return nil
}

func asMap(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
