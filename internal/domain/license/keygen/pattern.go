package keygen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars = "0123456789"
	punctChars = "!@#$%^&*()+=[]/"
)

var patternClasses = map[rune]string{
	'X': upperChars,
	'x': lowerChars,
	'9': digitChars,
	'#': punctChars,
	'?': upperChars + lowerChars + digitChars + punctChars,
}

// Pattern expands a template such as "XXXX-9999". A backslash makes the
// following character literal.
type Pattern struct{}

func NewPattern() *Pattern {
	return &Pattern{}
}

func (g *Pattern) Generate(_ context.Context, req Request) (string, error) {
	pattern := req.Options.String("pattern")
	if pattern == "" {
		return "", ErrMissingPattern
	}
	return expandPattern(pattern)
}

func expandPattern(pattern string) (string, error) {
	var b strings.Builder
	escaped := false
	for _, r := range pattern {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		class, ok := patternClasses[r]
		if !ok {
			b.WriteRune(r)
			continue
		}
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

func randomChar(class string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(class))))
	if err != nil {
		return 0, fmt.Errorf("failed to read random number: %w", err)
	}
	return class[n.Int64()], nil
}
