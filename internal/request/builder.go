// Package request computes the minimal valid request body for the image
// generation API from a model id and the user's form values.
package request

import (
	"github.com/hyprflux/hyprflux/internal/catalog"
	"github.com/hyprflux/hyprflux/internal/models"
)

// Fixed transport choices, not user-configurable.
const (
	ResponseFormat = "b64_json"
	OutputFormat   = "png"
)

// canonicalBinaryFields is the fallback set of binary-payload field names
// used when the model has no descriptor declaring its own.
var canonicalBinaryFields = []string{"control_image", "image_prompt"}

// Build filters the form values down to the fields the model accepts,
// applies model-specific elision rules, and forces the fixed transport
// fields. An unknown model id passes the values through best-effort rather
// than failing: validation, not building, is the gate for bad input.
func Build(modelID string, values models.FieldValues) models.FieldValues {
	desc, found := catalog.Resolve(modelID)
	if !found {
		return values.Clone()
	}

	allowed := map[string]bool{"model": true, "prompt": true}
	for _, f := range catalog.EffectiveFields(desc, modelID) {
		allowed[f.Name] = true
	}

	body := make(models.FieldValues, len(values)+3)
	for name, value := range values {
		if !allowed[name] || isEmpty(value) {
			continue
		}
		body[name] = value
	}

	// The API rejects an explicit "none" style on DALL·E 3; the sentinel
	// exists only so the UI can offer "no preference".
	if modelID == "dall-e-3" || modelID == "azure/dall-e-3" {
		if style, ok := body["style"].(string); ok && style == "none" {
			delete(body, "style")
		}
	}

	body["model"] = modelID
	body["response_format"] = ResponseFormat
	body["output_format"] = OutputFormat

	binary := catalog.BinaryFieldNames(desc, modelID)
	if len(binary) == 0 {
		binary = canonicalBinaryFields
	}
	markBinaryFields(body, binary)
	return body
}

// BinaryFields reports which binary-payload field names apply to a model,
// falling back to the canonical pair for models without a descriptor.
func BinaryFields(modelID string) []string {
	if desc, found := catalog.Resolve(modelID); found {
		if names := catalog.BinaryFieldNames(desc, modelID); len(names) > 0 {
			return names
		}
	}
	return canonicalBinaryFields
}

// markBinaryFields sets has_<name> companion flags for binary fields that
// carry a value, so storage normalization can strip and placeholder the
// payload without re-inspecting its content.
func markBinaryFields(body models.FieldValues, names []string) {
	for _, name := range names {
		if !isEmpty(body[name]) {
			body["has_"+name] = true
		}
	}
}

// isEmpty reports whether a value should be omitted from the outgoing
// request. Absence is not a default: a field with no user-supplied value is
// simply left out.
func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	return false
}
