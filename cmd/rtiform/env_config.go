package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-rtiform/internal/config"
)

// envConfig holds configuration from RTIFORM_* environment variables.
type envConfig struct {
	ConfigPath string // RTIFORM_CONFIG
	OutputDir  string // RTIFORM_OUTPUT_DIR
	Format     string // RTIFORM_FORMAT
	Renderer   string // RTIFORM_RENDERER
	Timeout    string // RTIFORM_TIMEOUT
	Workers    int    // RTIFORM_WORKERS
	LogLevel   string // RTIFORM_LOG_LEVEL
	DateFormat string // RTIFORM_DATE_FORMAT
}

// knownEnvVars lists valid RTIFORM_* variables.
// Used to warn about typos.
var knownEnvVars = map[string]bool{
	"RTIFORM_CONFIG":      true,
	"RTIFORM_OUTPUT_DIR":  true,
	"RTIFORM_FORMAT":      true,
	"RTIFORM_RENDERER":    true,
	"RTIFORM_TIMEOUT":     true,
	"RTIFORM_WORKERS":     true,
	"RTIFORM_LOG_LEVEL":   true,
	"RTIFORM_DATE_FORMAT": true,
	"RTIFORM_CONTAINER":   true, // doctor override
}

// loadEnvConfig reads the recognized RTIFORM_* variables.
// An unparseable RTIFORM_WORKERS is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("RTIFORM_CONFIG"),
		OutputDir:  os.Getenv("RTIFORM_OUTPUT_DIR"),
		Format:     os.Getenv("RTIFORM_FORMAT"),
		Renderer:   os.Getenv("RTIFORM_RENDERER"),
		Timeout:    os.Getenv("RTIFORM_TIMEOUT"),
		LogLevel:   os.Getenv("RTIFORM_LOG_LEVEL"),
		DateFormat: os.Getenv("RTIFORM_DATE_FORMAT"),
	}

	if workers := os.Getenv("RTIFORM_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized RTIFORM_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "RTIFORM_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set variables onto cfg.
// Environment beats the config file, flags are merged afterwards and beat both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Renderer != "" {
		cfg.Renderer.Backend = env.Renderer
	}
	if env.Timeout != "" {
		cfg.Renderer.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Renderer.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.DateFormat != "" {
		cfg.Document.DateFormat = env.DateFormat
	}
}
