// Package display holds the table of supported monitor models and the logic
// that decides whether a probed HID device is one of them.
package display

import (
	"fmt"
	"sort"

	"github.com/asdcontrol/asdctl/internal/brightness"
)

// USB vendor and product identifiers are 16-bit fields, but the hiddev
// driver reports them in a wider word.
const idMask = 0xFFFF

// Vendor is a known monitor vendor.
type Vendor struct {
	ID   uint16
	Name string
}

// Model describes one supported monitor model and its brightness range.
type Model struct {
	Vendor  uint16
	Product uint16
	Name    string
	Bounds  brightness.Bounds
}

func (m Model) String() string {
	return fmt.Sprintf("Vendor=0x%04x, Product=0x%04x [%s]", m.Vendor, m.Product, m.Name)
}

// Registry is the immutable lookup table of known vendors and models. It is
// constructed once at startup and passed by reference to everything that
// classifies devices; nothing mutates it after construction.
type Registry struct {
	vendors map[uint16]Vendor
	models  map[[2]uint16]Model
}

// NewRegistry returns a registry pre-populated with the built-in device
// table. Further entries can be merged from a models file before the first
// device is processed.
func NewRegistry() *Registry {
	r := &Registry{
		vendors: make(map[uint16]Vendor),
		models:  make(map[[2]uint16]Model),
	}
	r.addVendor(Vendor{ID: 0x05ac, Name: "Apple"})
	r.addModel(Model{
		Vendor:  0x05ac,
		Product: 0x1114,
		Name:    `Apple Studio Display (2022, 27")`,
		Bounds:  brightness.Bounds{Min: 400, Max: 60000},
	})
	return r
}

func (r *Registry) addVendor(v Vendor) {
	r.vendors[v.ID] = v
}

func (r *Registry) addModel(m Model) {
	r.models[[2]uint16{m.Vendor, m.Product}] = m
}

// LookupVendor resolves a raw vendor identifier. The identifier is masked to
// its low 16 bits before the lookup.
func (r *Registry) LookupVendor(id uint32) (Vendor, bool) {
	v, ok := r.vendors[uint16(id&idMask)]
	return v, ok
}

// LookupModel resolves a raw (vendor, product) pair. Both identifiers are
// masked to their low 16 bits before the lookup.
func (r *Registry) LookupModel(vendor, product uint32) (Model, bool) {
	m, ok := r.models[[2]uint16{uint16(vendor & idMask), uint16(product & idMask)}]
	return m, ok
}

// Classify is the support decision for a probed device.
func (r *Registry) Classify(vendor, product uint32) (Model, bool) {
	return r.LookupModel(vendor, product)
}

// Models returns all known models ordered by vendor id, then product id.
// The ordering is deterministic for list output.
func (r *Registry) Models() []Model {
	models := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Vendor != models[j].Vendor {
			return models[i].Vendor < models[j].Vendor
		}
		return models[i].Product < models[j].Product
	})
	return models
}

// FormatDevice renders the identity of a probed device, annotating the
// vendor and model names when they are known.
func (r *Registry) FormatDevice(vendor, product uint32) string {
	s := fmt.Sprintf("Vendor=0x%04x", vendor&idMask)
	if v, ok := r.LookupVendor(vendor); ok {
		s += fmt.Sprintf(" (%s)", v.Name)
	}
	s += fmt.Sprintf(", Product=0x%04x", product&idMask)
	if m, ok := r.LookupModel(vendor, product); ok {
		s += fmt.Sprintf(" [%s]", m.Name)
	}
	return s
}
