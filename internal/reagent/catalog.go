// Package reagent holds the reagent project catalog and the builders that turn
// catalog entries plus operator input into exact barcode payloads.
package reagent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ExpiryFormat selects how an ISO expiry date is laid out in a long payload.
type ExpiryFormat string

const (
	ExpiryDDMMYYYY   ExpiryFormat = "DDMMYYYY"
	ExpiryZeroPadded ExpiryFormat = "00DDMMYYYY"
)

// Reagent is one barcode-bearing component of a project.
type Reagent struct {
	Name           string `json:"name" toml:"name"`
	ShortPrefix    string `json:"short_prefix" toml:"short_prefix"`
	LongPrefix     string `json:"long_prefix" toml:"long_prefix"`
	GeneratesLong  bool   `json:"generates_long" toml:"generates_long"`
	GeneratesShort bool   `json:"generates_short" toml:"generates_short"`
	ProjectBits    string `json:"project_bits" toml:"project_bits"`
	LongTrailing   string `json:"long_trailing" toml:"long_trailing"`
	DefaultSN      string `json:"default_sn" toml:"default_sn"`
}

// UnmarshalJSON defaults both generate flags to true when they are absent.
func (r *Reagent) UnmarshalJSON(data []byte) error {
	type plain Reagent
	p := plain{GeneratesLong: true, GeneratesShort: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Reagent(p)
	return nil
}

// Project groups reagents that share a control number and expiry layout.
type Project struct {
	Name             string       `json:"name" toml:"name"`
	ControlNoSuffix  string       `json:"control_no_suffix" toml:"control_no_suffix"`
	ControlNoDefault string       `json:"control_no_default_number" toml:"control_no_default_number"`
	ExpiryFormat     ExpiryFormat `json:"expiry_format" toml:"expiry_format"`
	Reagents         []Reagent    `json:"reagents" toml:"reagents"`
}

// Catalog is the read-only list of known projects.
type Catalog struct {
	Projects []Project `json:"projects" toml:"projects"`
}

// Find looks a project up by name, ignoring case.
func (c *Catalog) Find(name string) (*Project, bool) {
	for i := range c.Projects {
		if strings.EqualFold(c.Projects[i].Name, name) {
			return &c.Projects[i], true
		}
	}
	return nil, false
}

// At returns the project at index, as selected in a project list.
func (c *Catalog) At(index int) (*Project, bool) {
	if index < 0 || index >= len(c.Projects) {
		return nil, false
	}
	return &c.Projects[index], true
}

// Names lists project names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Projects))
	for i, p := range c.Projects {
		names[i] = p.Name
	}
	return names
}

// LoadCatalog reads the catalog from path. A missing file yields the
// built-in catalog, which is written back to path so operators have a
// template to edit. An unparsable file also yields the built-in catalog but
// is left untouched; the parse error is returned alongside it so the caller
// can report it.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	catalog, err := readCatalog(path)
	switch {
	case err == nil:
		return catalog, nil
	case errors.Is(err, fs.ErrNotExist):
		catalog = DefaultCatalog()
		if err := SaveCatalog(catalog, path); err != nil {
			return catalog, err
		}
		return catalog, nil
	case errors.Is(err, ErrCatalogParse):
		return DefaultCatalog(), err
	default:
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
}

// SaveCatalog writes c as TOML when path ends in .toml, JSON otherwise.
func SaveCatalog(c *Catalog, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ErrCatalogParse marks a catalog file that exists but cannot be used.
var ErrCatalogParse = errors.New("failed to parse catalog")

func readCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	catalog := &Catalog{}
	if isTOML(path) {
		if err := decodeTOML(data, catalog); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogParse, err)
		}
	} else if err := json.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogParse, err)
	}

	if len(catalog.Projects) == 0 {
		return nil, fmt.Errorf("%w: no projects in %s", ErrCatalogParse, path)
	}
	return catalog, nil
}

// tomlCatalog mirrors Catalog with optional generate flags so that absent
// flags can default to true, as they do for JSON.
type tomlCatalog struct {
	Projects []struct {
		Name             string       `toml:"name"`
		ControlNoSuffix  string       `toml:"control_no_suffix"`
		ControlNoDefault string       `toml:"control_no_default_number"`
		ExpiryFormat     ExpiryFormat `toml:"expiry_format"`
		Reagents         []struct {
			Name           string `toml:"name"`
			ShortPrefix    string `toml:"short_prefix"`
			LongPrefix     string `toml:"long_prefix"`
			GeneratesLong  *bool  `toml:"generates_long"`
			GeneratesShort *bool  `toml:"generates_short"`
			ProjectBits    string `toml:"project_bits"`
			LongTrailing   string `toml:"long_trailing"`
			DefaultSN      string `toml:"default_sn"`
		} `toml:"reagents"`
	} `toml:"projects"`
}

func decodeTOML(data []byte, catalog *Catalog) error {
	var raw tomlCatalog
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return err
	}

	for _, p := range raw.Projects {
		project := Project{
			Name:             p.Name,
			ControlNoSuffix:  p.ControlNoSuffix,
			ControlNoDefault: p.ControlNoDefault,
			ExpiryFormat:     p.ExpiryFormat,
		}
		for _, r := range p.Reagents {
			project.Reagents = append(project.Reagents, Reagent{
				Name:           r.Name,
				ShortPrefix:    r.ShortPrefix,
				LongPrefix:     r.LongPrefix,
				GeneratesLong:  r.GeneratesLong == nil || *r.GeneratesLong,
				GeneratesShort: r.GeneratesShort == nil || *r.GeneratesShort,
				ProjectBits:    r.ProjectBits,
				LongTrailing:   r.LongTrailing,
				DefaultSN:      r.DefaultSN,
			})
		}
		catalog.Projects = append(catalog.Projects, project)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
