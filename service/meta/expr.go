package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnvExpr replaces ${env.NAME} with the value of NAME. An expression
// with no closing brace or with a name outside [A-Za-z0-9_] is left as is.
func expandEnvExpr(text string) string {
	if !strings.Contains(text, envPrefix) {
		return text
	}
	var out strings.Builder
	out.Grow(len(text))
	for {
		before, after, found := strings.Cut(text, envPrefix)
		out.WriteString(before)
		if !found {
			return out.String()
		}
		name, rest, closed := strings.Cut(after, "}")
		if !closed {
			out.WriteString(envPrefix)
			out.WriteString(after)
			return out.String()
		}
		if !isEnvName(name) {
			// rescan after the prefix so nested expressions still expand
			out.WriteString(envPrefix)
			text = after
			continue
		}
		out.WriteString(os.Getenv(name))
		text = rest
	}
}

func isEnvName(name string) bool {
	return strings.IndexFunc(name, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	}) < 0
}
