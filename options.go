package rtiform

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-rtiform/internal/assets"
	"github.com/alnah/go-rtiform/internal/dateutil"
	"github.com/alnah/go-rtiform/internal/jurisdiction"
	"github.com/alnah/go-rtiform/internal/layout"
)

// Directory is the jurisdiction lookup used by the wizard and composer.
type Directory = jurisdiction.Directory

// ErrInvalidDateFormat is returned when a date format string cannot be used.
var ErrInvalidDateFormat = dateutil.ErrInvalidDateFormat

// ErrInvalidAssetPath is returned when WithAssetPath names an unusable directory.
var ErrInvalidAssetPath = assets.ErrInvalidBasePath

// defaultTimeout bounds a single browser render.
const defaultTimeout = 30 * time.Second

// Option configures a Composer, Wizard or Renderer.
// Options that do not apply to a component are ignored by it.
type Option func(*settings)

// settings holds the configuration shared by library components.
type settings struct {
	logger     *zap.Logger
	clock      func() time.Time
	directory  *Directory
	dateFormat string
	measurer   Measurer
	timeout    time.Duration
	template   string
	assetPath  string
}

func newSettings(opts []Option) *settings {
	s := &settings{
		logger:     zap.NewNop(),
		clock:      time.Now,
		dateFormat: dateutil.DefaultDateFormat,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.measurer == nil {
		s.measurer = layout.Default()
	}
	return s
}

// assetLoader returns the resolver for WithAssetPath, or the embedded assets.
func (s *settings) assetLoader() (assets.AssetLoader, error) {
	if s.assetPath == "" {
		return assets.NewEmbeddedLoader(), nil
	}
	r, err := assets.NewAssetResolver(s.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return r, nil
}

// resolveDirectory returns the configured directory, loading the default
// table from the asset loader when none was given.
func (s *settings) resolveDirectory() (*Directory, error) {
	if s.directory != nil {
		return s.directory, nil
	}
	if s.assetPath == "" {
		dir, err := jurisdiction.Default()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDirectory, err)
		}
		return dir, nil
	}
	loader, err := s.assetLoader()
	if err != nil {
		return nil, err
	}
	dir, err := jurisdiction.Load(loader, assets.DefaultDirectoryName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirectory, err)
	}
	return dir, nil
}

// resolveTemplate returns the HTML document template source.
func (s *settings) resolveTemplate() (string, error) {
	if s.template != "" {
		return s.template, nil
	}
	loader, err := s.assetLoader()
	if err != nil {
		return "", err
	}
	src, err := loader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return src, nil
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l == nil {
			l = zap.NewNop()
		}
		s.logger = l
	}
}

// WithClock sets the source of "today" for new records.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithDirectory sets the jurisdiction directory.
func WithDirectory(d *Directory) Option {
	return func(s *settings) {
		s.directory = d
	}
}

// WithDateFormat sets the declaration date format, e.g. "DD/MM/YYYY" or a
// preset name such as "iso". Invalid formats are reported by the constructor.
func WithDateFormat(format string) Option {
	return func(s *settings) {
		s.dateFormat = format
	}
}

// WithMeasurer replaces the text measurer used for wrapping.
func WithMeasurer(m Measurer) Option {
	return func(s *settings) {
		s.measurer = m
	}
}

// WithTimeout sets the browser render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("rtiform: WithTimeout duration must be positive")
	}
	return func(s *settings) {
		s.timeout = d
	}
}

// WithTemplate sets the HTML document template source.
func WithTemplate(src string) Option {
	return func(s *settings) {
		s.template = src
	}
}

// WithAssetPath loads the jurisdiction table and document template from a
// custom directory, falling back to the embedded assets per file.
func WithAssetPath(path string) Option {
	return func(s *settings) {
		s.assetPath = path
	}
}
