package loader

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlLoaderBackend is a loaderBackend implementation for .yaml asset files.
type yamlLoaderBackend struct {
	importer *yamlImporter
}

var _ loaderBackend = &yamlLoaderBackend{}

func newYAMLLoaderBackend(nextHandle func() uint64) loaderBackend {
	return &yamlLoaderBackend{importer: &yamlImporter{nextHandle: nextHandle}}
}

func (b *yamlLoaderBackend) Load(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadReader(f)
}

func (b *yamlLoaderBackend) LoadReader(r io.Reader) (*Asset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlAsset
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	return b.importer.importAsset(&doc)
}

func (b *yamlLoaderBackend) Extensions() []string {
	return []string{".yaml", ".yml"}
}
