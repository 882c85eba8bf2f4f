package catalog

import (
	"bytes"
	_ "embed"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(err)
	}
	return c
}
