package manifest

import (
	"regexp"
	"strings"
)

// refPattern matches a platform substitution reference occupying the whole
// value, e.g. "${secrets.BOT_TOKEN}" or "${vars.REGION}".
var refPattern = regexp.MustCompile(`^\$\{[A-Za-z_][A-Za-z0-9_.]*\}$`)

// sensitivePatterns are key substrings that indicate a literal value should
// be redacted before display.
var sensitivePatterns = []string{"TOKEN", "SECRET", "PASSWORD", "KEY", "CREDENTIAL", "HASH"}

// IsReference reports whether the value is a substitution reference that
// the platform resolves at deploy time. References are opaque to the
// loader; they pass schema validation as plain strings.
func (e EnvVar) IsReference() bool {
	return refPattern.MatchString(e.Value)
}

// Redacted returns the value prepared for display. Substitution references
// pass through untouched since they never contain secret material. Literal
// values under a sensitive-looking key keep their first 4 chars + "***";
// values shorter than 4 chars are fully redacted.
func (e EnvVar) Redacted() string {
	if e.IsReference() {
		return e.Value
	}
	upper := strings.ToUpper(e.Key)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			if len(e.Value) >= 4 {
				return e.Value[:4] + "***"
			}
			return "***"
		}
	}
	return e.Value
}
