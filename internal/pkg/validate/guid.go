package validate

import "regexp"

// guidPattern accepts RFC 4122 versions 1-5 in canonical hyphenated form.
// uuid.Parse is deliberately not used: it also takes braces and urn: prefixes.
var guidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func GUID(s string) bool {
	return guidPattern.MatchString(s)
}
