package display

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"github.com/asdcontrol/asdctl/internal/brightness"
)

// modelFile is the on-disk shape of a user-supplied device table extension.
// Identifiers may be written in YAML hex notation (0x05ac).
type modelFile struct {
	Vendors []vendorEntry `yaml:"vendors"`
	Models  []modelEntry  `yaml:"models"`
}

type vendorEntry struct {
	ID   uint16 `yaml:"id"`
	Name string `yaml:"name"`
}

type modelEntry struct {
	Vendor  uint16 `yaml:"vendor"`
	Product uint16 `yaml:"product"`
	Name    string `yaml:"name"`
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max"`
}

// LoadModelFile merges additional vendor and model entries from a YAML file
// into the registry. All entries are validated before any of them is merged,
// so a bad file never leaves the registry half-extended.
func (r *Registry) LoadModelFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read models file: %w", err)
	}
	var file modelFile
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return fmt.Errorf("failed to parse models file %s: %w", path, err)
	}

	var errs error
	for i, v := range file.Vendors {
		if v.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("vendor %d (0x%04x): name is required", i, v.ID))
		}
	}
	for i, m := range file.Models {
		if m.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("model %d (0x%04x:0x%04x): name is required", i, m.Vendor, m.Product))
		}
		if m.Min > m.Max {
			errs = multierr.Append(errs, fmt.Errorf("model %d (0x%04x:0x%04x): min %d exceeds max %d", i, m.Vendor, m.Product, m.Min, m.Max))
		}
	}
	if errs != nil {
		return fmt.Errorf("invalid models file %s: %w", path, errs)
	}

	for _, v := range file.Vendors {
		r.addVendor(Vendor{ID: v.ID, Name: v.Name})
	}
	for _, m := range file.Models {
		r.addModel(Model{
			Vendor:  m.Vendor,
			Product: m.Product,
			Name:    m.Name,
			Bounds:  brightness.Bounds{Min: m.Min, Max: m.Max},
		})
	}
	return nil
}
