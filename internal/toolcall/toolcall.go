// Package toolcall recovers tool invocations from free-text model replies and
// recognises replies where the model declined to act.
package toolcall

import (
	"regexp"
	"strings"
)

const dottedName = `([A-Za-z_][\w-]*\.[A-Za-z_][\w-]*)`

var (
	// openCall matches "[server.tool(" at the start of a bracket.
	openCall = regexp.MustCompile(`\[\s*` + dottedName + `\s*\(`)
	// nextCall matches ", server.tool(" after a call inside the same bracket.
	nextCall = regexp.MustCompile(`^\s*,\s*` + dottedName + `\s*\(`)
)

// ParseBracket returns the dotted tool names called in content, in order of
// appearance. Calls use "[server.tool(...)]" syntax, and one bracket may hold
// a comma-separated list: [a.b(x=1), c.d(y=2)]. Repeated calls are kept.
func ParseBracket(content string) []string {
	var out []string
	for pos := 0; pos < len(content); {
		loc := openCall.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			break
		}
		out = append(out, content[pos+loc[2]:pos+loc[3]])
		pos += loc[1]
		for {
			end := closeParen(content, pos)
			if end < 0 {
				return out
			}
			pos = end
			m := nextCall.FindStringSubmatchIndex(content[pos:])
			if m == nil {
				break
			}
			out = append(out, content[pos+m[2]:pos+m[3]])
			pos += m[1]
		}
	}
	return out
}

// closeParen returns the offset just past the ")" closing a call whose
// arguments start at i, or -1 when the call is unterminated. Quoted strings
// are skipped.
func closeParen(s string, i int) int {
	depth := 1
	var quote byte
	for ; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

var deflectionPhrases = []string{
	"i can't",
	"i cannot",
	"i can not",
	"i'm unable",
	"i am unable",
	"i'm not able",
	"i am not able",
	"i don't have access",
	"i do not have access",
	"i don't have the ability",
	"i don't have that capability",
	"i'm sorry",
	"as an ai",
	"unfortunately, i",
	"you can do this by",
	"you could try",
	"would you like me to",
	"could you please provide",
	"could you clarify",
	"please provide",
}

// IsDeflection reports whether a reply without a tool call reads as a refusal
// or a question back to the user instead of an action.
func IsDeflection(content string) bool {
	text := strings.ToLower(strings.TrimSpace(content))
	if text == "" {
		return false
	}
	text = strings.ReplaceAll(text, "’", "'")
	for _, p := range deflectionPhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
