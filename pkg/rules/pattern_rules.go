package rules

import (
	"context"
	"fmt"
	"regexp"
)

// Loose shape check, not RFC 5322; stricter parsing belongs in an
// application-supplied Satisfies rule.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegexRule validates string values against a compiled pattern. Absent
// values pass; pair with RequiredRule to reject them.
type RegexRule struct {
	baseRule
	Pattern *regexp.Regexp
}

// NewMatchesRule creates a pattern rule with the "matches" message.
func NewMatchesRule(pattern *regexp.Regexp) *RegexRule {
	return &RegexRule{baseRule: newBaseRule("matches"), Pattern: pattern}
}

// NewEmailRule creates a pattern rule for email addresses.
func NewEmailRule() *RegexRule {
	return &RegexRule{baseRule: newBaseRule("email"), Pattern: emailPattern}
}

func (r *RegexRule) Execute(_ context.Context, value, _ any) (bool, error) {
	if isEmpty(value) {
		return true, nil
	}
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}
	return r.Pattern.MatchString(s), nil
}
