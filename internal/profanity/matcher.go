// Package profanity decides whether a message contains a blocked term.
//
// Matching is a blocklist, not a classifier: there is no severity, only
// match or no match. Each term tolerates single-character look-alike
// substitutions (e.g. "sh1t", "@sshole") and is anchored to word boundaries so
// innocent words that merely contain a term ("class", "diet") pass.
package profanity

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

const warning = "Your message contains inappropriate language. Please write kindly and respectfully."

// lookalikes maps a letter to the characters commonly typed in its place.
var lookalikes = map[rune]string{
	'a': "[a@4]",
	'e': "[e3]",
	'i': "[i1!]",
	'o': "[o0]",
	's': "[s$5]",
	't': "[t7]",
}

// A boundary is start/end of text or any rune that is not a letter, digit or underscore.
const (
	leadingBoundary  = `(?:^|[^\p{L}\p{N}_])`
	trailingBoundary = `(?:$|[^\p{L}\p{N}_])`
)

// Matcher is an immutable compiled blocklist. Safe for concurrent use.
type Matcher struct {
	re *regexp.Regexp
}

// New compiles terms into a single case-insensitive alternation.
func New(terms []string) (*Matcher, error) {
	alts := make([]string, 0, len(terms))
	for _, t := range terms {
		if p := termPattern(t); p != "" {
			alts = append(alts, p)
		}
	}
	if len(alts) == 0 {
		return nil, errors.New("profanity: empty term list")
	}

	re, err := regexp.Compile(`(?i)` + leadingBoundary + `(?:` + strings.Join(alts, "|") + `)` + trailingBoundary)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re}, nil
}

func termPattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	var b strings.Builder
	inSpace := false
	for _, r := range term {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteString(`\s+`)
			}
			inSpace = true
			continue
		}
		inSpace = false

		switch {
		case r == '*':
			b.WriteString(".")
		case lookalikes[r] != "":
			b.WriteString(lookalikes[r])
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// Matches reports whether text contains any blocked term.
func (m *Matcher) Matches(text string) bool {
	if text == "" {
		return false
	}
	return m.re.MatchString(text)
}

var (
	defaultOnce    sync.Once
	defaultMatcher *Matcher
)

// Default returns the process-wide matcher built from the embedded term list.
// The list ships with the binary, so a failure to build it is a programming error.
func Default() *Matcher {
	defaultOnce.Do(func() {
		terms, err := EmbeddedTerms()
		if err != nil {
			panic(err)
		}
		m, err := New(terms)
		if err != nil {
			panic(err)
		}
		defaultMatcher = m
	})
	return defaultMatcher
}

// Contains is shorthand for Default().Matches(text).
func Contains(text string) bool {
	return Default().Matches(text)
}

// Warning is the message shown when a submission is blocked. It never names the term.
func Warning() string {
	return warning
}
