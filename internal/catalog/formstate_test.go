package catalog

import (
	"testing"

	"github.com/hyprflux/hyprflux/internal/models"
)

func TestNewFormState(t *testing.T) {
	s := NewFormState("flux-1.1-pro")
	if s.ModelID != "flux-1.1-pro" {
		t.Errorf("ModelID = %q, want flux-1.1-pro", s.ModelID)
	}
	if s.Values["model"] != "flux-1.1-pro" {
		t.Errorf("values[model] = %v, want flux-1.1-pro", s.Values["model"])
	}
	if s.Values["steps"] != float64(20) {
		t.Errorf("values[steps] = %v, want default 20", s.Values["steps"])
	}
}

func TestNewFormStateUnknownModel(t *testing.T) {
	s := NewFormState("mystery-model")
	if s.ModelID != "mystery-model" {
		t.Errorf("ModelID = %q, want mystery-model", s.ModelID)
	}
	if len(s.Values) != 1 || s.Values["model"] != "mystery-model" {
		t.Errorf("Values = %v, want only the model key", s.Values)
	}
}

func TestSetFieldImmutable(t *testing.T) {
	s1 := NewFormState("dall-e-3")
	s2 := s1.SetField("prompt", "a fox")

	if _, ok := s1.Values["prompt"]; ok {
		t.Error("SetField mutated the original state")
	}
	if s2.Values["prompt"] != "a fox" {
		t.Errorf("new state prompt = %v, want a fox", s2.Values["prompt"])
	}
}

func TestSetFieldModelSwitchPrunes(t *testing.T) {
	s := NewFormState("flux-1.1-pro").
		SetField("prompt", "a fox").
		SetField("steps", float64(30))

	// Switching within the flux family keeps the shared fields.
	s = s.SetField("model", "flux-dev")
	if s.ModelID != "flux-dev" {
		t.Errorf("ModelID = %q, want flux-dev", s.ModelID)
	}
	if s.Values["steps"] != float64(30) {
		t.Errorf("steps = %v, want 30 preserved across flux models", s.Values["steps"])
	}
	if s.Values["prompt"] != "a fox" {
		t.Errorf("prompt = %v, want preserved", s.Values["prompt"])
	}
}

func TestSetFieldModelSwitchDropsForeignFields(t *testing.T) {
	s := FormState{
		ModelID: "ideogram-v2",
		Values: models.FieldValues{
			"model":        "ideogram-v2",
			"prompt":       "a fox",
			"aspect_ratio": "16:9",
			"leftover":     "junk",
		},
	}
	s = s.SetField("model", "ideogram-v2-turbo")
	if _, ok := s.Values["leftover"]; ok {
		t.Error("foreign key survived the model switch")
	}
	if s.Values["aspect_ratio"] != "16:9" {
		t.Errorf("aspect_ratio = %v, want preserved", s.Values["aspect_ratio"])
	}
}

func TestSelectFamilyResets(t *testing.T) {
	s := NewFormState("flux-1.1-pro").SetField("prompt", "a fox")

	var recraft Family
	for _, fam := range Families() {
		if fam.ID == "recraft" {
			recraft = fam
		}
	}

	s = s.SelectFamily(recraft)
	if s.ModelID != "recraft-v3" {
		t.Errorf("ModelID = %q, want recraft-v3", s.ModelID)
	}
	if _, ok := s.Values["prompt"]; ok {
		t.Error("prompt carried over across families")
	}
	if s.Values["model"] != "recraft-v3" {
		t.Errorf("values[model] = %v, want recraft-v3", s.Values["model"])
	}
}

func TestLoadSettings(t *testing.T) {
	stored := models.FieldValues{
		"model":  "dall-e-3",
		"prompt": "a city skyline",
		"size":   "1792x1024",
	}

	s := NewFormState("flux-1.1-pro").LoadSettings(stored)
	if s.ModelID != "dall-e-3" {
		t.Errorf("ModelID = %q, want dall-e-3", s.ModelID)
	}
	if s.Values["size"] != "1792x1024" {
		t.Errorf("size = %v, want 1792x1024", s.Values["size"])
	}

	// The loaded state must not alias the stored map.
	s.Values["size"] = "1024x1024"
	if stored["size"] != "1792x1024" {
		t.Error("LoadSettings aliased the settings map")
	}
}

func TestLoadSettingsUnknownModel(t *testing.T) {
	before := NewFormState("flux-1.1-pro")
	after := before.LoadSettings(models.FieldValues{"model": "gone-model"})
	if after.ModelID != before.ModelID {
		t.Errorf("ModelID changed to %q on unknown settings model", after.ModelID)
	}

	after = before.LoadSettings(models.FieldValues{"prompt": "no model key"})
	if after.ModelID != before.ModelID {
		t.Error("state changed on settings without a model key")
	}
}
