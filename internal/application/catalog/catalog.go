// Package catalog reads the YAML mirror of storefront products, customers and
// transactions loaded by `licenser import`.
package catalog

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/orris-inc/licenser/internal/domain/product"
)

// Catalog is the document root.
type Catalog struct {
	Products     []Product     `yaml:"products"`
	Customers    []Customer    `yaml:"customers"`
	Transactions []Transaction `yaml:"transactions"`
}

type Product struct {
	ID          uint                  `yaml:"id"`
	Name        string                `yaml:"name"`
	Slug        string                `yaml:"slug"`
	Description string                `yaml:"description"`
	License     product.LicenseConfig `yaml:"license"`
	Readme      product.Readme        `yaml:"readme"`
}

type Customer struct {
	ID    uint   `yaml:"id"`
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type Transaction struct {
	ID         uint  `yaml:"id"`
	CustomerID uint  `yaml:"customer_id"`
	Total      int64 `yaml:"total"`
}

// Parse decodes a catalog, rejecting unknown fields.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return &c, nil
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (*Catalog, error) {
	return Parse(bytes.NewReader(data))
}
