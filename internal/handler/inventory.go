package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// EquipRequest is the body of POST .../equipment
type EquipRequest struct {
	ItemID string `json:"item_id" validate:"required,max=64"`
}

// SendItemsRequest is the body of POST .../items/send
type SendItemsRequest struct {
	ToOwnerID string `json:"to_owner_id" validate:"required,ownerid"`
	ItemID    string `json:"item_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

var validSlots = map[domain.Slot]bool{
	domain.SlotWeapon:    true,
	domain.SlotOffhand:   true,
	domain.SlotHead:      true,
	domain.SlotChest:     true,
	domain.SlotLegs:      true,
	domain.SlotBoots:     true,
	domain.SlotGloves:    true,
	domain.SlotTool:      true,
	domain.SlotAccessory: true,
}

// HandleEquip moves an item from the inventory into its slot
// @Summary Equip item
// @Tags equipment
// @Accept json
// @Produce json
// @Param owner path string true "Owner id"
// @Param request body EquipRequest true "Item"
// @Success 200 {object} game.EquipResult
// @Router /api/v1/characters/{owner}/equipment [post]
func (h *CharacterHandler) HandleEquip(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	var req EquipRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Equip"); err != nil {
		return
	}

	res, err := h.game.Equip(r.Context(), owner, req.ItemID)
	if err != nil {
		respondServiceError(w, r, "equip", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleUnequip moves the item in a slot back to the inventory
// @Summary Unequip slot
// @Tags equipment
// @Produce json
// @Param owner path string true "Owner id"
// @Param slot path string true "Equipment slot"
// @Success 200 {object} domain.ItemSnapshot
// @Router /api/v1/characters/{owner}/equipment/{slot} [delete]
func (h *CharacterHandler) HandleUnequip(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	slot := domain.Slot(chi.URLParam(r, URLParamSlot))
	if !validSlots[slot] {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidSlot)
		return
	}

	item, err := h.game.Unequip(r.Context(), owner, slot)
	if err != nil {
		respondServiceError(w, r, "unequip", err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// HandleCollectClaims moves pending deliveries into the inventory
// @Summary Collect claims
// @Tags claims
// @Produce json
// @Param owner path string true "Owner id"
// @Success 200 {object} game.CollectResult
// @Router /api/v1/characters/{owner}/claims/collect [post]
func (h *CharacterHandler) HandleCollectClaims(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	res, err := h.game.CollectClaims(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, "collect claims", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleSendItems delivers items to another character's claims
func (h *CharacterHandler) HandleSendItems(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	var req SendItemsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Send items"); err != nil {
		return
	}

	if err := h.game.SendItems(r.Context(), owner, req.ToOwnerID, req.ItemID, req.Quantity); err != nil {
		respondServiceError(w, r, "send items", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgItemsSent})
}
