package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/config"
)

// LoadCatalog loads the static tables from CATALOG_PATH, or the embedded
// default set when no path is configured. Validation failures are fatal.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	var (
		cat    *catalog.Catalog
		err    error
		source = CatalogSourceEmbedded
	)
	if cfg.CatalogPath != "" {
		source = cfg.CatalogPath
		cat, err = catalog.LoadDir(cfg.CatalogPath)
	} else {
		cat, err = catalog.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	slog.Info(LogMsgCatalogLoaded,
		"source", source,
		"items", len(cat.Items()),
		"monsters", len(cat.Monsters()),
		"dungeons", len(cat.Dungeons()))
	return cat, nil
}
