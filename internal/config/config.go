// Package config loads and validates rtiform YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-rtiform/internal/assets"
	"github.com/alnah/go-rtiform/internal/dateutil"
	"github.com/alnah/go-rtiform/internal/fileutil"
	"github.com/alnah/go-rtiform/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxNameLength    = 100
	MaxAddressLength = 500
	MaxPlaceLength   = 100
	MaxPhoneLength   = 20
	MaxPathLength    = 4096
	MaxTimeoutLength = 20 // "2m30s"
)

// Accepted enumeration values.
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"

	BackendNative = "native"
	BackendChrome = "chrome"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// MaxWorkers bounds the batch worker count accepted from configuration.
const MaxWorkers = 32

// Config holds all configuration for drafting applications.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Document  DocumentConfig  `yaml:"document"`
	Applicant ApplicantConfig `yaml:"applicant"`
	Directory DirectoryConfig `yaml:"directory"`
	Log       LogConfig       `yaml:"log"`
}

// OutputConfig defines where and in which format documents are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // empty = current directory
	Format string `yaml:"format"` // "pdf" or "html" (default: "pdf")
}

// RendererConfig selects how PDFs are produced.
type RendererConfig struct {
	Backend string `yaml:"backend"` // "native" or "chrome" (default: "native")
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
	Workers int    `yaml:"workers"` // 0 = auto
}

// DocumentConfig defines document rendering options.
type DocumentConfig struct {
	DateFormat string `yaml:"dateFormat"` // preset or token format (default: DD/MM/YYYY)
	State      string `yaml:"state"`      // jurisdiction table name (default: kerala)
}

// ApplicantConfig prefills the applicant section of the interactive wizard.
type ApplicantConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Place   string `yaml:"place"`
	Phone   string `yaml:"phone"`
}

// DirectoryConfig points at custom assets overriding the embedded ones.
type DirectoryConfig struct {
	Path string `yaml:"path"` // empty = embedded assets only
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: warn)
	Format string `yaml:"format"` // console or json (default: console)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Output:   OutputConfig{Format: FormatPDF},
		Renderer: RendererConfig{Backend: BackendNative},
		Document: DocumentConfig{
			DateFormat: dateutil.DefaultDateFormat,
			State:      assets.DefaultDirectoryName,
		},
		Log: LogConfig{Level: "warn", Format: LogFormatConsole},
	}
}

// Validate checks enumerations, durations and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"renderer.timeout", c.Renderer.Timeout, MaxTimeoutLength},
		{"applicant.name", c.Applicant.Name, MaxNameLength},
		{"applicant.address", c.Applicant.Address, MaxAddressLength},
		{"applicant.place", c.Applicant.Place, MaxPlaceLength},
		{"applicant.phone", c.Applicant.Phone, MaxPhoneLength},
		{"directory.path", c.Directory.Path, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if err := oneOf("output.format", c.Output.Format, FormatPDF, FormatHTML); err != nil {
		return err
	}
	if err := oneOf("renderer.backend", c.Renderer.Backend, BackendNative, BackendChrome); err != nil {
		return err
	}
	if err := oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if err := oneOf("log.format", c.Log.Format, LogFormatConsole, LogFormatJSON); err != nil {
		return err
	}

	if _, err := c.Renderer.TimeoutDuration(); err != nil {
		return err
	}
	if c.Renderer.Workers < 0 || c.Renderer.Workers > MaxWorkers {
		return fmt.Errorf("%w: renderer.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Renderer.Workers)
	}

	if c.Document.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.Document.DateFormat); err != nil {
			return fmt.Errorf("document.dateFormat: %w", err)
		}
	}
	if c.Document.State != "" {
		if err := assets.ValidateAssetName(c.Document.State); err != nil {
			return fmt.Errorf("document.state: %w", err)
		}
	}

	return nil
}

// TimeoutDuration parses Timeout. An empty value yields zero (use default).
func (r RendererConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: renderer.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: renderer.timeout: must be positive, got %s", ErrInvalidValue, r.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length in characters.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if n := utf8.RuneCountInString(value); n > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, n, maxLength)
	}
	return nil
}

// oneOf accepts an empty value (meaning default) or one of allowed, case-insensitively.
func oneOf(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Values missing from the file keep DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, the user config dir's go-rtiform/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-rtiform", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: triedPaths}
}

// NotFoundError lists the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Unwrap lets errors.Is match ErrConfigNotFound.
func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }
