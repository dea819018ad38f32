package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Env carries the environment overrides. Everything is optional; empty
// values fall back to the per-user defaults.
//
//	HH_DB          path to the sqlite save database
//	HH_CONFIG      path to the TOML config file
//	HH_PINNED_DATE pin the active date (YYYY-MM-DD), for testing economies
type Env struct {
	DB         string `envconfig:"DB"`
	Config     string `envconfig:"CONFIG"`
	PinnedDate string `envconfig:"PINNED_DATE"`
}

// FromEnv reads HH_* overrides from the process environment.
func FromEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("HH", &env); err != nil {
		return Env{}, fmt.Errorf("read env: %w", err)
	}
	return env, nil
}
