package expr

import (
	"regexp"
	"strings"
)

// bareIdentifier matches a dotted/hyphenated identifier not already
// wrapped in ${...} or a string literal, for auto-quoting inside #{...}.
var bareIdentifier = regexp.MustCompile(`\b(~?[A-Za-z_][\w-]*(?:\.[\w-]+)*)\b`)

var reservedWords = map[string]bool{
	"true": true, "false": true, "contains": true,
}

// IsExpression reports whether raw is expression syntax: backtick-wrapped
// or a #{...} block (spec.md §4.2 ValueHandler).
func IsExpression(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return (strings.HasPrefix(trimmed, "`") && strings.HasSuffix(trimmed, "`") && len(trimmed) >= 2) ||
		(strings.HasPrefix(trimmed, "#{") && strings.HasSuffix(trimmed, "}"))
}

// Unwrap strips the backtick or #{...} wrapper from raw and, for #{...},
// auto-quotes bare identifiers as ${...} references so the result is
// ready for Lex/Parse.
func Unwrap(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, "`") && strings.HasSuffix(trimmed, "`"):
		return strings.TrimSuffix(strings.TrimPrefix(trimmed, "`"), "`")
	case strings.HasPrefix(trimmed, "#{") && strings.HasSuffix(trimmed, "}"):
		inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "#{"), "}")
		return autoQuote(inner)
	default:
		return trimmed
	}
}

// autoQuote wraps bare identifiers (those not already inside ${...} or a
// quoted string) as ${name} references, leaving reserved words and
// already-wrapped references untouched.
func autoQuote(src string) string {
	var out strings.Builder
	i := 0
	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], "${"):
			end := strings.Index(src[i:], "}")
			if end == -1 {
				out.WriteString(src[i:])
				i = len(src)
				continue
			}
			out.WriteString(src[i : i+end+1])
			i += end + 1
		case src[i] == '\'' || src[i] == '"':
			quote := src[i]
			end := strings.IndexByte(src[i+1:], quote)
			if end == -1 {
				out.WriteString(src[i:])
				i = len(src)
				continue
			}
			out.WriteString(src[i : i+end+2])
			i += end + 2
		default:
			loc := bareIdentifier.FindStringIndex(src[i:])
			if loc == nil || loc[0] != 0 {
				out.WriteByte(src[i])
				i++
				continue
			}
			word := src[i+loc[0] : i+loc[1]]
			if reservedWords[word] {
				out.WriteString(word)
			} else {
				out.WriteString("${" + word + "}")
			}
			i += loc[1]
		}
	}
	return out.String()
}
