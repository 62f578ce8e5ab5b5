// Package validate checks extracted arguments against the motion text,
// dropping citations the text-understanding layer invented.
package validate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/motionscope/internal/model"
)

// CitationValidator removes citations that do not appear in the source
// motion. Models under JSON-mode pressure occasionally hallucinate
// plausible-looking case names, so every cited case must be present either
// in the pre-extracted allowed set or verbatim in the motion text.
type CitationValidator struct {
	logger *zap.Logger
}

func NewCitationValidator(logger *zap.Logger) *CitationValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CitationValidator{logger: logger}
}

// Filter rewrites each argument's citation list in place, keeping only
// citations grounded in the motion. allowed maps lowercased case names from
// the pre-extraction pass.
func (v *CitationValidator) Filter(arguments []model.Argument, allowed map[string]bool, motionText string) []model.Argument {
	lowerText := strings.ToLower(motionText)

	for i := range arguments {
		kept := arguments[i].Citations[:0]
		for _, c := range arguments[i].Citations {
			name := strings.ToLower(strings.TrimSpace(c.CaseName))
			if name == "" {
				continue
			}
			if allowed[name] || strings.Contains(lowerText, name) {
				kept = append(kept, c)
				continue
			}
			v.logger.Warn("dropping fabricated citation",
				zap.String("argument_id", arguments[i].ID),
				zap.String("case_name", c.CaseName))
		}
		arguments[i].Citations = kept
	}
	return arguments
}
