package model

// CategoryOrigin tells whether a category came from the fixed taxonomy
// or was created on the fly during an analysis
type CategoryOrigin string

const (
	OriginPredefined CategoryOrigin = "predefined"
	OriginCustom     CategoryOrigin = "custom"
)

// Category classifies an argument's legal theory
type Category struct {
	Key                 string         `json:"key"` // Unique slug, e.g. "procedural_defenses"
	DisplayName         string         `json:"display_name"`
	Origin              CategoryOrigin `json:"origin"`
	CreatedByArgumentID string         `json:"created_by_argument_id,omitempty"` // Set for custom categories
}
