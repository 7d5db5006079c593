// Package keygen produces license key strings. A product's license
// configuration names a generator slug and its options; the Registry resolves
// the slug to a Generator.
package keygen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Generator slugs stored in product license configuration.
const (
	TypeRandom  = "random"
	TypePattern = "pattern"
	TypeList    = "list"
)

var (
	ErrInvalidLength   = errors.New("key length must be at least 1")
	ErrMissingPattern  = errors.New("a key pattern is required")
	ErrUnexpectedValue = errors.New("unexpected value")
)

// Options are generator settings from a product's license configuration.
type Options map[string]any

// Int reads an integer option, accepting JSON numbers and numeric strings.
// def is returned when the option is absent.
func (o Options) Int(name string, def int) (int, error) {
	raw, ok := o[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("option %s: %v is not an integer", name, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("option %s: %w", name, err)
		}
		return int(n), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return def, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("option %s: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("option %s: unsupported type %T", name, raw)
	}
}

// String reads a string option.
func (o Options) String(name string) string {
	if v, ok := o[name].(string); ok {
		return v
	}
	return ""
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Request carries the purchase a key is generated for.
type Request struct {
	ProductID     uint
	CustomerID    uint
	TransactionID uint
	Options       Options
}

// Generator produces a new key string.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// OptionsStore persists a product's generator options.
type OptionsStore interface {
	SaveKeyOptions(ctx context.Context, productID uint, opts map[string]any) error
}
