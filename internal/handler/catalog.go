package handler

import (
	"net/http"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
)

// CatalogHandler exposes the static tables to clients
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// HandleItems lists every item definition
// @Summary List items
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Item
// @Router /api/v1/catalog/items [get]
func (h *CatalogHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Items())
}

// HandleMonsters lists every monster definition
// @Summary List monsters
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Monster
// @Router /api/v1/catalog/monsters [get]
func (h *CatalogHandler) HandleMonsters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Monsters())
}

// HandleDungeons lists every dungeon definition
// @Summary List dungeons
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Dungeon
// @Router /api/v1/catalog/dungeons [get]
func (h *CatalogHandler) HandleDungeons(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Dungeons())
}
