package keygen

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
)

// DefaultLength is the key length used when no length option is set.
const DefaultLength = 32

// Random builds keys from hex SHA-1 digests of the current time and a random number.
type Random struct {
	now func() time.Time
}

func NewRandom() *Random {
	return &Random{now: time.Now}
}

func (g *Random) Generate(_ context.Context, req Request) (string, error) {
	length, err := req.Options.Int("length", DefaultLength)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLength, err)
	}
	return g.generate(length)
}

func (g *Random) generate(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}

	limit := big.NewInt(math.MaxInt64)
	var b strings.Builder
	b.Grow(length + sha1.Size*2)
	for b.Len() < length {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random number: %w", err)
		}
		sum := sha1.Sum([]byte(fmt.Sprintf("%d%s", g.now().UnixMicro(), n.String())))
		b.WriteString(hex.EncodeToString(sum[:]))
	}
	return b.String()[:length], nil
}
