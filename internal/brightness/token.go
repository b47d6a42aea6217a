// Package brightness implements the lexical classification of brightness
// arguments and the resolution of parsed tokens into concrete device values.
package brightness

import "strconv"

type Kind int

const (
	// Absolute targets an exact brightness value.
	Absolute Kind = iota
	// RelativeDelta adjusts the device's current value by a signed amount.
	RelativeDelta
)

// Token is the parse result of a single command-line argument that matched
// the brightness grammar.
type Token struct {
	Kind      Kind
	Magnitude int
	// Sign is +1 or -1 and is only meaningful for RelativeDelta tokens.
	Sign    int
	Percent bool
}

// Classify decides whether a raw command-line token is a brightness argument
// and, if so, extracts its kind, magnitude and sign. It is a pure function of
// the string: anything that does not match the grammar is reported as
// non-numeric and the caller treats it as a device path.
//
// Grammar: an optional leading '+' or '-' (which makes the token a relative
// delta), followed by one or more digits, optionally terminated by a single
// '%'. Nothing may follow the '%'.
func Classify(token string) (Token, bool) {
	tok := Token{Kind: Absolute, Sign: 1}

	rest := token
	if rest == "" {
		return Token{}, false
	}
	switch rest[0] {
	case '+':
		tok.Kind = RelativeDelta
		rest = rest[1:]
	case '-':
		tok.Kind = RelativeDelta
		tok.Sign = -1
		rest = rest[1:]
	}

	digits := 0
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == '%' {
			if i != len(rest)-1 {
				return Token{}, false
			}
			tok.Percent = true
			break
		}
		if c < '0' || c > '9' {
			return Token{}, false
		}
		digits++
	}
	if digits == 0 {
		return Token{}, false
	}

	mag, err := strconv.Atoi(rest[:digits])
	if err != nil {
		return Token{}, false
	}
	tok.Magnitude = mag
	return tok, true
}
