package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"coverserver/internal/domain"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	categories, err := decodeYAML(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("catalog: decode embedded catalog: %w", err)
	}
	return New(categories)
}

// tomlFile wraps the category list because TOML documents must be tables.
type tomlFile struct {
	Categories []domain.Category `toml:"categories"`
}

// LoadFile reads a catalog from path. The format follows the extension:
// .yaml/.yml, .toml or .json.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: %q is empty", path)
	}

	var categories []domain.Category
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		categories, err = decodeYAML(data)
	case ".toml":
		var doc tomlFile
		err = toml.Unmarshal(data, &doc)
		categories = doc.Categories
	case ".json":
		err = json.Unmarshal(data, &categories)
	default:
		return nil, fmt.Errorf("catalog: unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return New(categories)
}

func decodeYAML(data []byte) ([]domain.Category, error) {
	var categories []domain.Category
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Load picks the catalog source: repo when non-nil, then the file at path,
// then the embedded default.
func Load(ctx context.Context, path string, repo domain.CategoryRepository) (*Catalog, error) {
	switch {
	case repo != nil:
		return FromRepository(ctx, repo)
	case strings.TrimSpace(path) != "":
		return LoadFile(path)
	default:
		return Default()
	}
}
