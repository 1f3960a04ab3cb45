package executor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// contextLimit caps how much of a prior result is inlined into a prompt.
const contextLimit = 2000

// StepRef builds a case-insensitive, word-bounded matcher for "step n", so
// that "step 1" does not match "step 12".
func StepRef(n int) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\bstep\s+` + strconv.Itoa(n) + `\b`)
}

// Interpolate appends the mock result of every passed prior step that the
// description refers to as "step <index+1>". References are looked up in the
// original description only.
func Interpolate(description string, prior History) string {
	var sb strings.Builder
	sb.WriteString(description)
	for _, r := range prior.results {
		if !r.Passed() {
			continue
		}
		n := r.StepIndex + 1
		if !StepRef(n).MatchString(description) {
			continue
		}
		fmt.Fprintf(&sb, "\n\n[Context from previous step %d]:\n%s", n, truncateContext(r.MockResult))
	}
	return sb.String()
}

func truncateContext(s string) string {
	if len(s) <= contextLimit {
		return s
	}
	cut := contextLimit
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut] + "... [truncated]"
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }
