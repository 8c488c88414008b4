package sets

import (
	"iter"
	"regexp"
)

// tokenRe matches the separator "x", a multiplier "3 (5)" (kept whole even
// with inner whitespace), or any run of characters that is not x, a comma or
// whitespace.
var tokenRe = regexp.MustCompile(`x|\d+\s*\(\d+\)|[^x,\s]+`)

// Separator is the token between work and reps.
const Separator = "x"

// Tokenize yields the tokens of a set-notation string. Commas and whitespace
// only separate tokens. Each range over the result rescans s.
func Tokenize(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, loc := range tokenRe.FindAllStringIndex(s, -1) {
			if !yield(s[loc[0]:loc[1]]) {
				return
			}
		}
	}
}

// Tokens collects Tokenize into a slice.
func Tokens(s string) []string {
	var out []string
	for tok := range Tokenize(s) {
		out = append(out, tok)
	}
	return out
}
