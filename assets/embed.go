// Package assets embeds the default question catalog.
package assets

import "embed"

//go:embed catalog.json
var FS embed.FS

// Catalog returns the raw JSON of the embedded default catalog.
func Catalog() ([]byte, error) {
	return FS.ReadFile("catalog.json")
}
