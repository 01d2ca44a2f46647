package main

import (
	"fmt"

	"github.com/mstoykov/envconfig"

	"github.com/Deanly/struct-layout-sub000/hexdump"
)

// envConfig holds defaults read from the environment. Flags override them.
type envConfig struct {
	Width int `envconfig:"LAYOUTDUMP_WIDTH"`
}

func loadEnvConfig(lookup func(key string) (string, bool)) (envConfig, error) {
	cfg := envConfig{Width: hexdump.DefaultWidth}
	if err := envconfig.Process("", &cfg, lookup); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.Width <= 0 {
		return cfg, fmt.Errorf("LAYOUTDUMP_WIDTH must be positive, got %d", cfg.Width)
	}

	return cfg, nil
}
