package catalog

import "github.com/hyprflux/hyprflux/internal/models"

// FormState is the immutable pair of the selected concrete model and the
// values the user has accumulated for it. Transitions return a new state and
// never mutate the receiver; the caller threads the current state through.
type FormState struct {
	ModelID string
	Values  models.FieldValues
}

// NewFormState starts a form for the given concrete model, pre-filled with
// the descriptor's defaults. Unknown model ids yield a state carrying only
// the model key.
func NewFormState(modelID string) FormState {
	vals := models.FieldValues{}
	if desc, ok := Resolve(modelID); ok {
		vals = Defaults(desc, modelID)
	}
	vals["model"] = modelID
	return FormState{ModelID: modelID, Values: vals}
}

// SelectFamily resets the form to the family's default model. No field
// values carry over: fields are not comparable across families.
func (s FormState) SelectFamily(f Family) FormState {
	modelID := f.DefaultModel()
	return FormState{
		ModelID: modelID,
		Values:  models.FieldValues{"model": modelID},
	}
}

// SetField records one field edit. Changing the "model" field within a
// family prunes values that are not effective for the new model.
func (s FormState) SetField(name string, value interface{}) FormState {
	next := FormState{ModelID: s.ModelID, Values: s.Values.Clone()}
	next.Values[name] = value

	if name != "model" {
		return next
	}

	modelID, ok := value.(string)
	if !ok {
		return next
	}
	next.ModelID = modelID

	desc, found := Resolve(modelID)
	if !found {
		return next
	}
	keep := map[string]bool{"model": true}
	for _, f := range EffectiveFields(desc, modelID) {
		keep[f.Name] = true
	}
	for key := range next.Values {
		if !keep[key] {
			delete(next.Values, key)
		}
	}
	return next
}

// LoadSettings replaces the form with a previously stored settings map, as
// when re-opening a history record. The settings must name a known model;
// otherwise the current state is returned unchanged.
func (s FormState) LoadSettings(settings models.FieldValues) FormState {
	modelID, ok := settings["model"].(string)
	if !ok {
		return s
	}
	if _, found := Resolve(modelID); !found {
		return s
	}
	return FormState{ModelID: modelID, Values: settings.Clone()}
}
