// Package seed loads demo catalogs into the database for development and
// testing. Catalogs come from YAML files or are generated with gofakeit.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var defaultCatalog []byte

// Catalog is a set of categories with their outfits.
type Catalog struct {
	Categories []CategorySpec `yaml:"categories"`
}

// CategorySpec is one category entry of a catalog file.
type CategorySpec struct {
	Name    string       `yaml:"name"`
	Outfits []OutfitSpec `yaml:"outfits"`
}

// OutfitSpec is one outfit entry of a catalog file.
type OutfitSpec struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	ImageURL    string     `yaml:"image_url,omitempty"`
	Items       []ItemSpec `yaml:"items"`
}

// ItemSpec is one clothing piece of an outfit entry.
type ItemSpec struct {
	Name  string `yaml:"name"`
	Brand string `yaml:"brand,omitempty"`
	Model string `yaml:"model,omitempty"`
}

// DefaultCatalog returns the built-in demo catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalogFile reads a catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadCatalog(f)
}

// LoadCatalog decodes a catalog from r. Unknown keys are rejected.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var catalog Catalog
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// ParseCatalog decodes a catalog from YAML bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(data))
}

// Validate checks names are present and category names are unique.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Categories))
	for i, category := range c.Categories {
		name := strings.TrimSpace(category.Name)
		if name == "" {
			return fmt.Errorf("categories[%d]: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("categories[%d]: duplicate category %q", i, name)
		}
		seen[name] = struct{}{}

		for j, outfit := range category.Outfits {
			if strings.TrimSpace(outfit.Title) == "" {
				return fmt.Errorf("%s outfits[%d]: title is required", name, j)
			}
			for k, item := range outfit.Items {
				if strings.TrimSpace(item.Name) == "" {
					return fmt.Errorf("%s outfits[%d] items[%d]: name is required", name, j, k)
				}
			}
		}
	}
	return nil
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
