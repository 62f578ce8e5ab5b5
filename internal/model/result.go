package model

// AnalysisOptions controls optional pipeline behavior per request
type AnalysisOptions struct {
	// ExtractAllArguments enables the second, implied-argument pass
	ExtractAllArguments bool `json:"extract_all_arguments"`

	// AllowCustomCategories permits creating categories outside the
	// predefined taxonomy; when false an unmatched label is an error
	AllowCustomCategories bool `json:"allow_custom_categories"`
}

// DefaultAnalysisOptions returns the options applied when a request omits them
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		ExtractAllArguments:   true,
		AllowCustomCategories: true,
	}
}

// AnalysisRequest is the input to one motion analysis
type AnalysisRequest struct {
	MotionText      string           `json:"motion_text"`
	CaseContext     string           `json:"case_context,omitempty"`
	AnalysisOptions *AnalysisOptions `json:"analysis_options,omitempty"`
}

// Options returns the request options, falling back to defaults
func (r AnalysisRequest) Options() AnalysisOptions {
	if r.AnalysisOptions == nil {
		return DefaultAnalysisOptions()
	}
	return *r.AnalysisOptions
}

// ArgumentGroup is a cluster of arguments sharing a strategic theory.
// Groups always have at least two members and may overlap.
type ArgumentGroup struct {
	GroupName         string        `json:"group_name"`
	MemberArgumentIDs []string      `json:"member_argument_ids"`
	CombinedStrength  StrengthLevel `json:"combined_strength"` // Never weaker than the strongest member
}

// AnalysisResult is the complete structured inventory for one motion.
// All entities are created fresh per request; nothing is retained afterward.
type AnalysisResult struct {
	AllArguments                 []Argument      `json:"all_arguments"` // Ordered by discovery location
	ArgumentGroups               []ArgumentGroup `json:"argument_groups"`
	TotalArgumentsFound          int             `json:"total_arguments_found"`
	StrongestArguments           []string        `json:"strongest_arguments"` // Argument IDs
	CustomCategoriesCreated      []Category      `json:"custom_categories_created"`
	RecommendedResponseStructure []string        `json:"recommended_response_structure"`
}
