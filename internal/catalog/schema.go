package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyprflux/hyprflux/internal/models"
)

// Request validation schemas. Each concrete model id owns one schema; a model
// with no registered schema skips validation entirely (permissive by default).
// Validation is purely structural and runs before the network call as a
// fail-fast gate, not as a guarantee of server-side acceptance.

// Rule constrains a single request field.
type Rule struct {
	String bool     // value must be a string
	Number bool     // value must be a number
	Min    float64  // inclusive numeric range, honored when Ranged
	Max    float64
	Ranged bool
	MinLen int      // string length bounds; MaxLen 0 means unbounded
	MaxLen int
	Enum   []string // allowed literal values
}

// Schema is the structural contract of one model's request body.
type Schema struct {
	Required []string
	Rules    map[string]Rule
}

var (
	promptRule  = Rule{String: true, MinLen: 1, MaxLen: 10000}
	responseFmt = Rule{String: true, Enum: []string{"url", "b64_json"}}
	outputFmt   = Rule{String: true, Enum: []string{"png", "jpeg", "webp"}}

	fluxSteps = Rule{Number: true, Min: 1, Max: 50, Ranged: true}
	fluxEdge  = Rule{Number: true, Min: 256, Max: 1440, Ranged: true}
)

func fluxSchema(modelID string) *Schema {
	return &Schema{
		Required: []string{"model", "prompt", "steps", "height", "width"},
		Rules: map[string]Rule{
			"model":           {String: true, Enum: []string{modelID}},
			"prompt":          promptRule,
			"response_format": responseFmt,
			"output_format":   outputFmt,
			"steps":           fluxSteps,
			"height":          fluxEdge,
			"width":           fluxEdge,
		},
	}
}

func ideogramSchema(modelID string) *Schema {
	return &Schema{
		Required: []string{"model", "prompt"},
		Rules: map[string]Rule{
			"model":               {String: true, Enum: []string{modelID}},
			"prompt":              promptRule,
			"response_format":     responseFmt,
			"output_format":       outputFmt,
			"negative_prompt":     {String: true, MaxLen: 10000},
			"aspect_ratio":        {String: true, Enum: ideogramAspectRatios},
			"style_type":          {String: true, Enum: ideogramStyleTypes},
			"magic_prompt_option": {String: true, Enum: []string{"Auto", "On", "Off"}},
		},
	}
}

var schemas = map[string]*Schema{
	"flux-1.1-pro":      fluxSchema("flux-1.1-pro"),
	"flux-pro":          fluxSchema("flux-pro"),
	"flux-dev":          fluxSchema("flux-dev"),
	"flux-schnell":      fluxSchema("flux-schnell"),
	"ideogram-v2":       ideogramSchema("ideogram-v2"),
	"ideogram-v2-turbo": ideogramSchema("ideogram-v2-turbo"),
	"recraft-v3": {
		Required: []string{"model", "prompt", "size"},
		Rules: map[string]Rule{
			"model":           {String: true, Enum: []string{"recraft-v3"}},
			"prompt":          promptRule,
			"response_format": responseFmt,
			"output_format":   outputFmt,
			"size":            {String: true, Enum: recraftSizes},
			"style":           {String: true, Enum: recraftStyles},
		},
	},
	"dall-e-3": {
		Required: []string{"model", "prompt", "size"},
		Rules: map[string]Rule{
			"model":           {String: true, Enum: []string{"dall-e-3"}},
			"prompt":          promptRule,
			"response_format": responseFmt,
			"output_format":   outputFmt,
			"quality":         {String: true, Enum: []string{"standard", "hd"}},
			"size":            {String: true, Enum: []string{"1024x1024", "1792x1024", "1024x1792"}},
			"style":           {String: true, Enum: []string{"vivid", "natural"}},
		},
	},
}

// SchemaFor returns the schema registered for a concrete model id.
func SchemaFor(modelID string) (*Schema, bool) {
	s, ok := schemas[modelID]
	return s, ok
}

// ValidateRequest checks a built request body against the schema of the model
// it names. Bodies for models without a schema pass unchanged. The returned
// error message is user-facing.
func ValidateRequest(body models.FieldValues) error {
	modelID, _ := body["model"].(string)
	s, ok := schemas[modelID]
	if !ok {
		return nil
	}
	return s.Validate(body)
}

// Validate checks required presence, value types, numeric ranges, enums, and
// string length bounds. Unknown keys are ignored.
func (s *Schema) Validate(body models.FieldValues) error {
	for _, name := range s.Required {
		if _, ok := body[name]; !ok {
			return fmt.Errorf("%s is required", name)
		}
	}

	// Deterministic check order for stable error messages.
	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule, ok := s.Rules[name]
		if !ok {
			continue
		}
		if err := rule.check(name, body[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r Rule) check(name string, value interface{}) error {
	if r.Number {
		n, ok := toNumber(value)
		if !ok {
			return fmt.Errorf("%s must be a number", name)
		}
		if r.Ranged && (n < r.Min || n > r.Max) {
			return fmt.Errorf("%s must be between %v and %v", name, r.Min, r.Max)
		}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s must be a string", name)
	}
	if len(r.Enum) > 0 {
		for _, allowed := range r.Enum {
			if str == allowed {
				return nil
			}
		}
		return fmt.Errorf("%s must be one of: %s", name, strings.Join(r.Enum, ", "))
	}
	if r.MinLen > 0 && len(str) < r.MinLen {
		return fmt.Errorf("%s must be at least %d characters", name, r.MinLen)
	}
	if r.MaxLen > 0 && len(str) > r.MaxLen {
		return fmt.Errorf("%s must be at most %d characters", name, r.MaxLen)
	}
	return nil
}

func toNumber(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
