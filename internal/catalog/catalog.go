// Package catalog is the static registry of image-generation model families.
// It is loaded once at startup and never mutated: families, descriptors, and
// fields are plain data, and every lookup goes through an index built at load
// time from concrete model id to its owning descriptor.
package catalog

import (
	"github.com/hyprflux/hyprflux/internal/models"
)

// FieldKind enumerates the input widget a field renders as.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindRange    FieldKind = "range"
	KindCheckbox FieldKind = "checkbox"
	KindTextArea FieldKind = "textarea"
)

// Field describes one typed form field of a model descriptor.
type Field struct {
	Name     string      `json:"name"`
	Kind     FieldKind   `json:"kind"`
	Label    string      `json:"label"`
	Required bool        `json:"required,omitempty"`
	Options  []string    `json:"options,omitempty"`
	Min      float64     `json:"min,omitempty"`
	Max      float64     `json:"max,omitempty"`
	Step     float64     `json:"step,omitempty"`
	Default  interface{} `json:"default,omitempty"`

	// VisibleFor restricts the field to the named concrete model ids.
	// Empty means visible for every model of the descriptor.
	VisibleFor []string `json:"visible_for,omitempty"`

	// Binary marks fields whose value is an opaque binary payload (base64
	// image input). Storage normalization replaces such values with
	// placeholder filenames instead of persisting them.
	Binary bool `json:"binary,omitempty"`
}

func (f Field) visibleFor(modelID string) bool {
	if len(f.VisibleFor) == 0 {
		return true
	}
	for _, id := range f.VisibleFor {
		if id == modelID {
			return true
		}
	}
	return false
}

// Descriptor is one selectable model form. A descriptor either stands for a
// single concrete model (its own id) or groups several concrete models behind
// a "model"-kind discriminator field whose options list the concrete ids.
type Descriptor struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// Discriminator returns the select field named "model", if the descriptor
// has one.
func (d *Descriptor) Discriminator() (Field, bool) {
	for _, f := range d.Fields {
		if f.Kind == KindSelect && f.Name == "model" {
			return f, true
		}
	}
	return Field{}, false
}

// ModelIDs returns the concrete model ids selectable under this descriptor,
// in declaration order.
func (d *Descriptor) ModelIDs() []string {
	if disc, ok := d.Discriminator(); ok {
		return disc.Options
	}
	return []string{d.ID}
}

// Family groups descriptors that share a tab in the UI.
type Family struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"name"`
	Description string       `json:"description"`
	Models      []Descriptor `json:"models"`
}

// DefaultModel returns the concrete model id a freshly selected family
// starts with: the first descriptor's discriminator default, or that
// descriptor's own id when it has no discriminator.
func (f Family) DefaultModel() string {
	if len(f.Models) == 0 {
		return ""
	}
	first := &f.Models[0]
	if disc, ok := first.Discriminator(); ok {
		if def, ok := disc.Default.(string); ok && def != "" {
			return def
		}
		if len(disc.Options) > 0 {
			return disc.Options[0]
		}
	}
	return first.ID
}

// byModel maps every concrete model id to its owning descriptor and family.
// Built once at package load; Resolve never scans.
var byModel = buildIndex()

type indexEntry struct {
	family     *Family
	descriptor *Descriptor
}

func buildIndex() map[string]indexEntry {
	idx := make(map[string]indexEntry)
	for fi := range families {
		fam := &families[fi]
		for di := range fam.Models {
			desc := &fam.Models[di]
			for _, id := range desc.ModelIDs() {
				idx[id] = indexEntry{family: fam, descriptor: desc}
			}
		}
	}
	return idx
}

// Families returns all model families in declaration order.
func Families() []Family {
	return families
}

// Resolve returns the descriptor owning the given concrete model id. A
// descriptor matches either by its own id or by its discriminator options.
func Resolve(modelID string) (*Descriptor, bool) {
	e, ok := byModel[modelID]
	if !ok {
		return nil, false
	}
	return e.descriptor, true
}

// FamilyOf returns the family containing the given concrete model id.
func FamilyOf(modelID string) (*Family, bool) {
	e, ok := byModel[modelID]
	if !ok {
		return nil, false
	}
	return e.family, true
}

// EffectiveFields filters the descriptor's fields to those visible for the
// given concrete model id, preserving declaration order.
func EffectiveFields(d *Descriptor, modelID string) []Field {
	out := make([]Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.visibleFor(modelID) {
			out = append(out, f)
		}
	}
	return out
}

// Defaults returns the default values of every effective field that declares
// one. Fields without defaults are absent, not null: absence means the user
// has supplied nothing yet.
func Defaults(d *Descriptor, modelID string) models.FieldValues {
	vals := make(models.FieldValues)
	for _, f := range EffectiveFields(d, modelID) {
		if f.Default != nil {
			vals[f.Name] = f.Default
		}
	}
	return vals
}

// BinaryFieldNames returns the names of the descriptor's binary-valued
// fields effective for the given model id.
func BinaryFieldNames(d *Descriptor, modelID string) []string {
	var out []string
	for _, f := range EffectiveFields(d, modelID) {
		if f.Binary {
			out = append(out, f.Name)
		}
	}
	return out
}
