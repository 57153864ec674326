// Package jurisdiction holds the read-only lookup of districts, local-body
// types and the local-body names registered for each (district, type) pair.
package jurisdiction

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/alnah/go-rtiform/internal/assets"
	"github.com/alnah/go-rtiform/internal/yamlutil"
)

// Sentinel errors for directory loading.
var (
	ErrInvalidTable = errors.New("invalid jurisdiction table")
	ErrLoadTable    = errors.New("failed to load jurisdiction table")
)

// table is the YAML shape of a jurisdiction file.
type table struct {
	State          string     `yaml:"state"`
	Districts      []string   `yaml:"districts"`
	LocalBodyTypes []string   `yaml:"localBodyTypes"`
	Placeholders   []string   `yaml:"placeholders"`
	LocalBodies    []bodyList `yaml:"localBodies"`
}

type bodyList struct {
	District string   `yaml:"district"`
	Type     string   `yaml:"type"`
	Names    []string `yaml:"names"`
}

type pair struct {
	district string
	kind     string
}

// Directory answers option queries for the authority section.
// It is immutable after construction and safe for concurrent use.
type Directory struct {
	state        string
	districts    []string
	types        []string
	placeholders []string
	names        map[pair][]string
}

// Parse decodes and validates a YAML jurisdiction table.
func Parse(data []byte) (*Directory, error) {
	var t table
	if err := yamlutil.UnmarshalStrict(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	d := &Directory{
		state:        strings.TrimSpace(t.State),
		districts:    slices.Clone(t.Districts),
		types:        slices.Clone(t.LocalBodyTypes),
		placeholders: slices.Clone(t.Placeholders),
		names:        make(map[pair][]string, len(t.LocalBodies)),
	}
	for _, lb := range t.LocalBodies {
		d.names[pair{lb.District, lb.Type}] = slices.Clone(lb.Names)
	}
	return d, nil
}

// Load reads the named table through loader and parses it.
func Load(loader assets.AssetLoader, name string) (*Directory, error) {
	data, err := loader.LoadDirectory(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadTable, err)
	}
	return Parse(data)
}

var defaultDirectory = sync.OnceValues(func() (*Directory, error) {
	return Load(assets.NewEmbeddedLoader(), assets.DefaultDirectoryName)
})

// Default returns the built-in Kerala directory.
func Default() (*Directory, error) {
	return defaultDirectory()
}

// MustDefault is like Default but panics if the embedded table is broken.
func MustDefault() *Directory {
	d, err := Default()
	if err != nil {
		panic(err)
	}
	return d
}

func (t *table) validate() error {
	if strings.TrimSpace(t.State) == "" {
		return fmt.Errorf("%w: state is required", ErrInvalidTable)
	}
	if err := checkList("districts", t.Districts); err != nil {
		return err
	}
	if err := checkList("localBodyTypes", t.LocalBodyTypes); err != nil {
		return err
	}
	if err := checkList("placeholders", t.Placeholders); err != nil {
		return err
	}

	seen := make(map[pair]bool, len(t.LocalBodies))
	for i, lb := range t.LocalBodies {
		if !slices.Contains(t.Districts, lb.District) {
			return fmt.Errorf("%w: localBodies[%d]: unknown district %q", ErrInvalidTable, i, lb.District)
		}
		if !slices.Contains(t.LocalBodyTypes, lb.Type) {
			return fmt.Errorf("%w: localBodies[%d]: unknown type %q", ErrInvalidTable, i, lb.Type)
		}
		key := pair{lb.District, lb.Type}
		if seen[key] {
			return fmt.Errorf("%w: localBodies[%d]: duplicate entry for %s/%s", ErrInvalidTable, i, lb.District, lb.Type)
		}
		seen[key] = true
		if err := checkList(fmt.Sprintf("localBodies[%d].names", i), lb.Names); err != nil {
			return err
		}
	}
	return nil
}

func checkList(field string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidTable, field)
	}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s contains a blank value", ErrInvalidTable, field)
		}
		if seen[v] {
			return fmt.Errorf("%w: %s contains duplicate %q", ErrInvalidTable, field, v)
		}
		seen[v] = true
	}
	return nil
}

// State returns the state name printed in the addressee block.
func (d *Directory) State() string { return d.state }

// Districts returns the district names in table order.
func (d *Directory) Districts() []string { return slices.Clone(d.districts) }

// LocalBodyTypes returns the local-body types in table order.
func (d *Directory) LocalBodyTypes() []string { return slices.Clone(d.types) }

// Placeholders returns the names offered for unmapped pairs.
func (d *Directory) Placeholders() []string { return slices.Clone(d.placeholders) }

// IsDistrict reports whether name is a known district.
func (d *Directory) IsDistrict(name string) bool { return slices.Contains(d.districts, name) }

// IsLocalBodyType reports whether name is a known local-body type.
func (d *Directory) IsLocalBodyType(name string) bool { return slices.Contains(d.types, name) }

// Options returns the local-body names for a (district, type) pair. When the
// pair is not in the table it returns the placeholder names and found=false.
// An empty district or type yields no options.
func (d *Directory) Options(district, localBodyType string) (names []string, found bool) {
	if district == "" || localBodyType == "" {
		return nil, false
	}
	if names, ok := d.names[pair{district, localBodyType}]; ok {
		return slices.Clone(names), true
	}
	return slices.Clone(d.placeholders), false
}

// IsOption reports whether name is selectable for the pair, placeholders included.
func (d *Directory) IsOption(district, localBodyType, name string) bool {
	names, _ := d.Options(district, localBodyType)
	return slices.Contains(names, name)
}
