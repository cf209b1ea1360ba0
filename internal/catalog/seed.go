package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed questions.yaml
var seedYAML []byte

// defaultCatalog is built once at package init from the embedded question set.
var defaultCatalog *Catalog

func init() {
	c, err := Load(seedYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded question catalog: %v", err))
	}
	defaultCatalog = c
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	return defaultCatalog
}

// Resolve returns the catalog at path, or the embedded catalog when path is empty.
func Resolve(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
