package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer strips markup from free text captured by other modules
// (constraint reasons, indication descriptions) before it is echoed back.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer builds a sanitizer that allows no HTML at all.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Text returns the input without markup and surrounding whitespace.
func (s *TextSanitizer) Text(raw string) string {
	if raw == "" {
		return ""
	}
	if s == nil || s.policy == nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
