// Package config loads generation parameters from a YAML file and HEXGEN_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexworld/internal/world"
)

// Load returns the default configuration overlaid with the YAML file at path
// (skipped when path is empty) and then the environment. The result is
// validated.
func Load(path string) (world.GenConfig, error) {
	cfg := world.DefaultGenConfig()
	heightRangeSet := false

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		var probe struct {
			HeightRange *[2]int `yaml:"height_range"`
		}
		if err := yaml.Unmarshal(raw, &probe); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		heightRangeSet = probe.HeightRange != nil
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	// Each map type has its own natural elevation span.
	if !heightRangeSet {
		cfg.HeightRange = world.PlanetFor(cfg.MapType).HeightRange()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *world.GenConfig) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"HEXGEN_SIZE", &cfg.Size},
		{"HEXGEN_SEA_PERCENT", &cfg.SeaPercent},
		{"HEXGEN_NUM_RIVERS", &cfg.NumRivers},
		{"HEXGEN_NUM_TERRITORIES", &cfg.NumTerritories},
	}
	for _, e := range ints {
		if err := envInt(e.key, e.dst); err != nil {
			return err
		}
	}

	if v := os.Getenv("HEXGEN_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HEXGEN_SEED=%q: %w", v, world.ErrInvalidConfig)
		}
		cfg.Seed = n
	}
	if v := os.Getenv("HEXGEN_ROUGHNESS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("HEXGEN_ROUGHNESS=%q: %w", v, world.ErrInvalidConfig)
		}
		cfg.Roughness = f
	}
	if v := os.Getenv("HEXGEN_MAP_TYPE"); v != "" {
		if err := cfg.MapType.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("HEXGEN_MAP_TYPE: %w", err)
		}
	}
	if v := os.Getenv("HEXGEN_ADVANCED_CLIMATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HEXGEN_ADVANCED_CLIMATE=%q: %w", v, world.ErrInvalidConfig)
		}
		cfg.AdvancedClimate = b
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", key, v, world.ErrInvalidConfig)
	}
	*dst = n
	return nil
}

// EnvOrDefault returns the environment value for key, or defaultVal.
func EnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
