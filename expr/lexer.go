package expr

import "regexp"

var (
	reWhitespace = regexp.MustCompile(`^\s+`)
	reArray      = regexp.MustCompile(`^\[\s*('(?:[^']*)'|"(?:[^"]*)")(\s*,\s*('(?:[^']*)'|"(?:[^"]*)"))*\s*\]`)
	reBool       = regexp.MustCompile(`^(true|false)\b`)
	reString     = regexp.MustCompile(`^'([^']*)'|^"([^"]*)"`)
	reVar        = regexp.MustCompile(`^\$\{(~?[\w.-]+)\}`)
	reEq         = regexp.MustCompile(`^(==|!=)`)
	reLogical    = regexp.MustCompile(`^(&&|\|\|)`)
	reNot        = regexp.MustCompile(`^!`)
	reContains   = regexp.MustCompile(`^contains\b`)
	reLParen     = regexp.MustCompile(`^\(`)
	reRParen     = regexp.MustCompile(`^\)`)
	reArrayItem  = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
)

// Lex tokenizes src, trying token classes in the fixed priority order
// spec.md §4.2 mandates. Returns a FormatError on the first unrecognized
// character run.
func Lex(src string) ([]Token, error) {
	var toks []Token
	rest := src
	for len(rest) > 0 {
		if m := reWhitespace.FindString(rest); m != "" {
			rest = rest[len(m):]
			continue
		}
		if m := reArray.FindString(rest); m != "" {
			toks = append(toks, Token{Kind: KindArray, Array: parseArrayLiteral(m)})
			rest = rest[len(m):]
			continue
		}
		if m := reBool.FindStringSubmatch(rest); m != nil {
			toks = append(toks, Token{Kind: KindBool, Text: m[1]})
			rest = rest[len(m[0]):]
			continue
		}
		if m := reString.FindStringSubmatch(rest); m != nil {
			text := m[1]
			if text == "" && m[2] != "" {
				text = m[2]
			}
			toks = append(toks, Token{Kind: KindString, Text: text})
			rest = rest[len(m[0]):]
			continue
		}
		if m := reVar.FindStringSubmatch(rest); m != nil {
			toks = append(toks, Token{Kind: KindVar, Text: m[1]})
			rest = rest[len(m[0]):]
			continue
		}
		if m := reEq.FindStringSubmatch(rest); m != nil {
			kind := KindEq
			if m[1] == "!=" {
				kind = KindNeq
			}
			toks = append(toks, Token{Kind: kind, Text: m[1]})
			rest = rest[len(m[0]):]
			continue
		}
		if m := reLogical.FindStringSubmatch(rest); m != nil {
			kind := KindAnd
			if m[1] == "||" {
				kind = KindOr
			}
			toks = append(toks, Token{Kind: kind, Text: m[1]})
			rest = rest[len(m[0]):]
			continue
		}
		if m := reNot.FindString(rest); m != "" {
			toks = append(toks, Token{Kind: KindNot, Text: m})
			rest = rest[len(m):]
			continue
		}
		if m := reContains.FindString(rest); m != "" {
			toks = append(toks, Token{Kind: KindContains, Text: m})
			rest = rest[len(m):]
			continue
		}
		if m := reLParen.FindString(rest); m != "" {
			toks = append(toks, Token{Kind: KindLParen})
			rest = rest[len(m):]
			continue
		}
		if m := reRParen.FindString(rest); m != "" {
			toks = append(toks, Token{Kind: KindRParen})
			rest = rest[len(m):]
			continue
		}
		return nil, &FormatError{Msg: "unrecognized token near " + truncate(rest, 20)}
	}
	return toks, nil
}

func parseArrayLiteral(raw string) []string {
	matches := reArrayItem.FindAllStringSubmatch(raw, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[0][0] == '\'' {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
