package loader

import (
	"io"
)

// loaderBackend defines the generic interface for decoding assets from files or streams.
// Concrete implementations (e.g., yamlLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes the asset file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Asset: the imported asset
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// LoadReader decodes an asset from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *Asset: the imported asset
	//   - error: error if loading fails
	LoadReader(r io.Reader) (*Asset, error)

	// Extensions returns the lower-case file extensions the backend reads, including the dot.
	//
	// Returns:
	//   - []string: the extensions
	Extensions() []string
}
