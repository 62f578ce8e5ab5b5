package taxonomy

import (
	"strings"
	"unicode"

	"github.com/ppiankov/motionscope/internal/model"
)

// predefined is the fixed category table, loaded once and never mutated.
// Keys are reserved: a custom category may not shadow them.
var predefined = []model.Category{
	{Key: "negligence_duty", DisplayName: "Negligence: Duty", Origin: model.OriginPredefined},
	{Key: "negligence_breach", DisplayName: "Negligence: Breach", Origin: model.OriginPredefined},
	{Key: "negligence_causation", DisplayName: "Negligence: Causation", Origin: model.OriginPredefined},
	{Key: "negligence_damages", DisplayName: "Negligence: Damages", Origin: model.OriginPredefined},
	{Key: "liability_issues", DisplayName: "Liability Issues", Origin: model.OriginPredefined},
	{Key: "causation_disputes", DisplayName: "Causation Disputes", Origin: model.OriginPredefined},
	{Key: "damages_arguments", DisplayName: "Damages Arguments", Origin: model.OriginPredefined},
	{Key: "procedural_defenses", DisplayName: "Procedural Defenses", Origin: model.OriginPredefined},
	{Key: "expert_witness_challenges", DisplayName: "Expert Witness Challenges", Origin: model.OriginPredefined},
	{Key: "evidence_admissibility", DisplayName: "Evidence Admissibility", Origin: model.OriginPredefined},
}

// predefinedByKey indexes the table by key and by normalized display name
var predefinedByKey = func() map[string]model.Category {
	m := make(map[string]model.Category, len(predefined)*2)
	for _, c := range predefined {
		m[c.Key] = c
		m[NormalizeKey(c.DisplayName)] = c
	}
	return m
}()

// Predefined returns the fixed taxonomy in stable order.
// The returned slice is a copy; callers may not mutate the table.
func Predefined() []model.Category {
	out := make([]model.Category, len(predefined))
	copy(out, predefined)
	return out
}

// NormalizeKey canonicalizes a candidate label into a slug: lowercase,
// punctuation stripped, whitespace collapsed, spaces joined by underscores
func NormalizeKey(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '-' || r == '/':
			b.WriteRune(' ')
		}
		// Remaining punctuation is dropped
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

// Family returns the coarse category family, e.g. "negligence" for
// "negligence_duty". Used by the grouping engine.
func Family(key string) string {
	if i := strings.IndexByte(key, '_'); i > 0 {
		return key[:i]
	}
	return key
}

// IsPredefined reports whether a label resolves to a predefined category
func IsPredefined(label string) bool {
	_, ok := predefinedByKey[NormalizeKey(label)]
	return ok
}

// Registry resolves category labels for a single analysis. The predefined
// table is shared and read-only; custom categories live only in this
// registry and are discarded with it.
type Registry struct {
	allowCustom bool
	custom      map[string]model.Category // normalized key -> category
	created     []model.Category          // in creation order
}

// NewRegistry creates a per-request registry
func NewRegistry(allowCustom bool) *Registry {
	return &Registry{
		allowCustom: allowCustom,
		custom:      make(map[string]model.Category),
	}
}

// ResolveOrCreate maps a candidate label to a Category. Match order:
// predefined keys and display names, then customs already created in this
// analysis, then a freshly synthesized custom category. With custom
// categories disabled a miss returns *model.ClassificationError.
func (r *Registry) ResolveOrCreate(label, createdByArgumentID string) (model.Category, error) {
	key := NormalizeKey(label)
	if key == "" {
		key = "uncategorized"
	}

	if cat, ok := predefinedByKey[key]; ok {
		return cat, nil
	}
	if cat, ok := r.custom[key]; ok {
		return cat, nil
	}

	if !r.allowCustom {
		return model.Category{}, &model.ClassificationError{Label: label}
	}

	cat := model.Category{
		Key:                 key,
		DisplayName:         displayName(label),
		Origin:              model.OriginCustom,
		CreatedByArgumentID: createdByArgumentID,
	}
	r.custom[key] = cat
	r.created = append(r.created, cat)
	return cat, nil
}

// DisplayName returns the display name for a resolved key, falling back to
// the key itself for labels that were never registered
func (r *Registry) DisplayName(key string) string {
	if cat, ok := predefinedByKey[key]; ok {
		return cat.DisplayName
	}
	if cat, ok := r.custom[key]; ok {
		return cat.DisplayName
	}
	return key
}

// CustomCreated returns the custom categories created during this analysis,
// in creation order. Never nil.
func (r *Registry) CustomCreated() []model.Category {
	out := make([]model.Category, len(r.created))
	copy(out, r.created)
	return out
}

// displayName produces a human-readable name from a raw label
func displayName(label string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimSpace(label), "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	if len(words) == 0 {
		return "Uncategorized"
	}
	return strings.Join(words, " ")
}
