package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/assets"
	"github.com/alnah/go-rtiform/internal/config"
	"github.com/alnah/go-rtiform/internal/jurisdiction"
)

// loadConfig resolves the config file from --config or RTIFORM_CONFIG and
// overlays the environment. Flags are merged by the caller.
func loadConfig(common commonFlags, env *Environment) (*config.Config, error) {
	warnUnknownEnvVars(env.Stderr)
	ec := loadEnvConfig()

	path := common.config
	if path == "" {
		path = ec.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(ec, cfg)
	return cfg, nil
}

// mergeRenderFlags applies set flags onto cfg (flags win).
func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.renderer != "" {
		cfg.Renderer.Backend = f.renderer
	}
	if f.timeout != "" {
		cfg.Renderer.Timeout = f.timeout
	}
	if f.dateFormat != "" {
		cfg.Document.DateFormat = f.dateFormat
	}
	if f.assetPath != "" {
		cfg.Directory.Path = f.assetPath
	}
}

// finalizeConfig validates the merged config and normalizes enumerations.
func finalizeConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	cfg.Renderer.Backend = strings.ToLower(cfg.Renderer.Backend)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	return nil
}

// assetLoader returns the loader for cfg: the custom directory with
// embedded fallback, or the environment's loader.
func assetLoader(cfg *config.Config, env *Environment) (assets.AssetLoader, error) {
	if cfg.Directory.Path == "" {
		return env.AssetLoader, nil
	}
	r, err := assets.NewAssetResolver(cfg.Directory.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rtiform.ErrInvalidAssetPath, err)
	}
	return r, nil
}

// loadDirectory loads the jurisdiction table named by document.state.
func loadDirectory(cfg *config.Config, env *Environment) (*rtiform.Directory, error) {
	loader, err := assetLoader(cfg, env)
	if err != nil {
		return nil, err
	}
	name := cfg.Document.State
	if name == "" {
		name = assets.DefaultDirectoryName
	}
	dir, err := jurisdiction.Load(loader, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rtiform.ErrInvalidDirectory, err)
	}
	return dir, nil
}

// libraryOptions translates cfg into options for the rtiform package.
func libraryOptions(cfg *config.Config, logger *zap.Logger, env *Environment) ([]rtiform.Option, error) {
	dir, err := loadDirectory(cfg, env)
	if err != nil {
		return nil, err
	}

	opts := []rtiform.Option{
		rtiform.WithLogger(logger),
		rtiform.WithClock(env.Now),
		rtiform.WithDirectory(dir),
	}
	if cfg.Document.DateFormat != "" {
		opts = append(opts, rtiform.WithDateFormat(cfg.Document.DateFormat))
	}
	if cfg.Directory.Path != "" {
		opts = append(opts, rtiform.WithAssetPath(cfg.Directory.Path))
	}

	timeout, err := cfg.Renderer.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if timeout > 0 {
		opts = append(opts, rtiform.WithTimeout(timeout))
	}
	return opts, nil
}
