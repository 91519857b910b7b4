package eventbus

import (
	"regexp"
	"strings"
)

// compilePattern turns a topic pattern into a matcher. Each "*" matches any
// run of characters and everything else is literal. The result is not
// anchored, so "user.*" also accepts "admin.user.created".
func compilePattern(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile(strings.Join(parts, ".*"))
}

// MatchPattern reports whether s is matched by pattern using the same rules
// as OnPattern.
func MatchPattern(pattern, s string) bool {
	return compilePattern(pattern).MatchString(s)
}
