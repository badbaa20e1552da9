package cli

// This file contains run configuration: flag defaults and the optional
// YAML profile ladder.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soakci/soakci/cli/profile"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const configFileName = ".soakci.yaml"

// fileConfig is the optional on-disk configuration. Omitted sections
// fall back to the built-in defaults.
type fileConfig struct {
	// Run-level environment overrides applied before any profile
	Env map[string]string `yaml:"env,omitempty"`
	// Custom profile ladder replacing the default one
	Profiles []profile.Profile `yaml:"profiles,omitempty"`
}

func (a *App) buildRunConfig(ctx *cli.Context, dir string) (runConfig, error) {
	cfg := runConfig{
		Dir:     dir,
		BaseEnv: os.Environ(),
		Env:     profile.SerialOverlay(),
		Profiles: profile.Ladder(profile.LadderOptions{
			Repeat:           ctx.Int("repeat"),
			Toolchain:        ctx.String("toolchain"),
			CheckedTest:      ctx.String("checked-test"),
			DisableIsolation: ctx.Bool("disable-isolation"),
		}),
	}

	path := ctx.String("config")
	if path == "" {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path == "" {
		return cfg, nil
	}

	fc, err := loadConfigFile(path)
	if err != nil {
		return runConfig{}, err
	}
	if fc.Env != nil {
		cfg.Env = fc.Env
	}
	if len(fc.Profiles) > 0 {
		if err := validateProfiles(fc.Profiles); err != nil {
			return runConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg.Profiles = fc.Profiles
	}

	a.logger.Debug().Str("config", path).Msg("Loaded configuration file")
	return cfg, nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &fc, nil
}

func validateProfiles(profiles []profile.Profile) error {
	for i, p := range profiles {
		if p.Name == "" {
			return fmt.Errorf("profile %d has no name", i)
		}
		if len(p.Argv) == 0 {
			return fmt.Errorf("profile %q has no command", p.Name)
		}
		if p.Repeat < 0 {
			return fmt.Errorf("profile %q has negative repeat count", p.Name)
		}
		if p.Terminal && i != len(profiles)-1 {
			return fmt.Errorf("profile %q is terminal but not last", p.Name)
		}
	}
	return nil
}
