// Package boundary keeps generated statements inside verifiable-assertion
// limits. Output text is scanned against a stop-line rule table; anything
// that reads as an accusation, a claim of intent, or an identification of a
// person from imagery is refused and replaced with structured data pointers.
package boundary

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// RefusalText is the fixed replacement text for blocked statements
const RefusalText = "This exceeds verifiable assertion boundaries. Relevant structured data is provided instead."

// stop-line rule identifiers surfaced in statement metadata
const (
	RuleStopline = "STOPLINE_GUARD"
)

type stopRule struct {
	name    string
	pattern *regexp.Regexp
}

// The built-in floor. Configuration can add patterns but never remove these.
var builtinRules = []stopRule{
	{"criminality", regexp.MustCompile(`(?i)\b(guilty|criminal|crime|felony|fraud|traffick\w*|rape|assault|abuse|murder)\b`)},
	{"intent", regexp.MustCompile(`(?i)\b(intended|intent|knowingly|conspired|cover[-\s]?up)\b`)},
	{"certainty", regexp.MustCompile(`(?i)\b(proved|definitely|certainly)\b`)},
	{"identification", regexp.MustCompile(`(?i)\b(identify|identification|this is|that is)\b.*\b(person|man|woman|face)\b`)},
	{"face-recognition", regexp.MustCompile(`(?i)\b(face recognition|recognize(d)? (him|her|them)|match(ed)? (a )?face)\b`)},
}

// Stopline scans text against the rule table
type Stopline struct {
	rules []stopRule
}

// NewStopline builds a stop-line scanner from the built-in floor plus any
// extra case-insensitive patterns. A malformed extra pattern is an error; the
// floor itself is immutable.
func NewStopline(extraPatterns []string) (*Stopline, error) {
	rules := make([]stopRule, len(builtinRules), len(builtinRules)+len(extraPatterns))
	copy(rules, builtinRules)

	for _, p := range extraPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid stop pattern %q", p)
		}
		rules = append(rules, stopRule{"extra", re})
	}
	return &Stopline{rules: rules}, nil
}

// Check returns (allowed, refusal reason). Blank text is always allowed.
func (s *Stopline) Check(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return true, ""
	}
	for _, r := range s.rules {
		if r.pattern.MatchString(text) {
			return false, RefusalText
		}
	}
	return true, ""
}
