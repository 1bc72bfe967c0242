package sources

import (
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/mcfg"
	"github.com/paradigmmc/mcman-go/internal/model"
)

// resolveFile implements the File{path} source: read a TOML
// `{addons: [...]}` document at path, applying its own `[defaults]` table
// to any addon that omits target/environment.
func resolveFile(path string) ([]model.Addon, error) {
	doc, err := mcfg.LoadAddons(path)
	if err != nil {
		return nil, fmt.Errorf("sources: read file source %s: %w", path, err)
	}

	addons := make([]model.Addon, 0, len(doc.Addons))
	for i, ad := range doc.Addons {
		m, err := ad.ToModel(doc.Defaults)
		if err != nil {
			return nil, fmt.Errorf("sources: %s addon %d: %w", path, i, err)
		}
		addons = append(addons, m)
	}
	return addons, nil
}
