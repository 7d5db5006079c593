// Package product mirrors the storefront products the license service issues
// keys for, together with their license and update metadata.
package product

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrNameRequired         = errors.New("product name is required")
	ErrLicensingDisabled    = errors.New("product does not issue license keys")
	ErrInvalidLicenseConfig = errors.New("invalid license configuration")
)

// LicenseConfig describes how keys for a product are issued.
type LicenseConfig struct {
	Enabled         bool           `json:"enabled" yaml:"enabled"`
	KeyType         string         `json:"key_type" yaml:"key_type"`
	KeyOptions      map[string]any `json:"key_options,omitempty" yaml:"key_options"`
	MaxActivations  int            `json:"max_activations" yaml:"max_activations"`
	ExpireAfterDays int            `json:"expire_after_days" yaml:"expire_after_days"`
}

// Validate checks the numeric limits. Key type slugs are resolved by the
// key generator registry when a key is issued.
func (c LicenseConfig) Validate() error {
	if c.MaxActivations < 0 {
		return fmt.Errorf("%w: max_activations cannot be negative", ErrInvalidLicenseConfig)
	}
	if c.ExpireAfterDays < 0 {
		return fmt.Errorf("%w: expire_after_days cannot be negative", ErrInvalidLicenseConfig)
	}
	return nil
}

// ExpiresFrom returns the expiration for a key issued or renewed at base,
// or nil when keys never expire.
func (c LicenseConfig) ExpiresFrom(base time.Time) *time.Time {
	if c.ExpireAfterDays == 0 {
		return nil
	}
	t := base.UTC().AddDate(0, 0, c.ExpireAfterDays)
	return &t
}

// Readme carries the metadata remote installations show for a product.
type Readme struct {
	Author     string `json:"author,omitempty" yaml:"author"`
	AuthorURL  string `json:"author_url,omitempty" yaml:"author_url"`
	Homepage   string `json:"homepage,omitempty" yaml:"homepage"`
	Requires   string `json:"requires,omitempty" yaml:"requires"`
	Tested     string `json:"tested,omitempty" yaml:"tested"`
	BannerLow  string `json:"banner_low,omitempty" yaml:"banner_low"`
	BannerHigh string `json:"banner_high,omitempty" yaml:"banner_high"`
}

// Product is a storefront product record.
type Product struct {
	id          uint
	name        string
	slug        string
	description string
	license     LicenseConfig
	readme      Readme
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProduct(id uint, name, slug, description string, license LicenseConfig, readme Readme) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := license.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Product{
		id:          id,
		name:        name,
		slug:        strings.TrimSpace(slug),
		description: description,
		license:     license,
		readme:      readme,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructProduct rebuilds a product from persistence
func ReconstructProduct(id uint, name, slug, description string, license LicenseConfig, readme Readme, createdAt, updatedAt time.Time) *Product {
	return &Product{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		license:     license,
		readme:      readme,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Product) ID() uint {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Slug() string {
	return p.slug
}

func (p *Product) Description() string {
	return p.description
}

func (p *Product) License() LicenseConfig {
	return p.license
}

func (p *Product) Readme() Readme {
	return p.readme
}

func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Product) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Product) IsLicensed() bool {
	return p.license.Enabled
}

func (p *Product) SetID(id uint) {
	p.id = id
}
