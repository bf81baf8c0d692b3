package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/IdleRealm_Go/internal/activity"
	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// StartActivityRequest is the body of POST .../activity
type StartActivityRequest struct {
	Type     string `json:"type" validate:"required,actiontype"`
	ItemID   string `json:"item_id" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"required,gt=0,lte=100000"`
}

// StartActivityResponse describes the accepted activity
type StartActivityResponse struct {
	Timing activity.Timing `json:"timing"`
}

// StartCombatRequest is the body of POST .../combat
type StartCombatRequest struct {
	Tier      int    `json:"tier" validate:"required,gt=0"`
	MonsterID string `json:"monster_id" validate:"required,max=64"`
}

// StartDungeonRequest is the body of POST .../dungeon
type StartDungeonRequest struct {
	DungeonID string `json:"dungeon_id" validate:"required,max=64"`
	Repeats   int    `json:"repeats" validate:"gte=0,lte=100"`
}

// SessionResponse wraps the summary of a stopped session
type SessionResponse struct {
	Summary domain.SessionSummary `json:"summary"`
}

// HandleStartActivity starts a gathering, refining or crafting activity
// @Summary Start activity
// @Tags activity
// @Accept json
// @Produce json
// @Param owner path string true "Owner id"
// @Param request body StartActivityRequest true "Activity"
// @Success 200 {object} StartActivityResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/characters/{owner}/activity [post]
func (h *CharacterHandler) HandleStartActivity(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	var req StartActivityRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start activity"); err != nil {
		return
	}

	timing, err := h.game.StartActivity(r.Context(), owner, activity.StartRequest{
		Type:     domain.ActionType(strings.ToUpper(req.Type)),
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondServiceError(w, r, "start activity", err)
		return
	}
	respondJSON(w, http.StatusOK, StartActivityResponse{Timing: timing})
}

// HandleStopActivity stops the current activity
// @Summary Stop activity
// @Tags activity
// @Produce json
// @Param owner path string true "Owner id"
// @Success 200 {object} SessionResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/characters/{owner}/activity [delete]
func (h *CharacterHandler) HandleStopActivity(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	summary, err := h.game.StopActivity(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, "stop activity", err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Summary: summary})
}

// HandleStartCombat engages a monster
// @Summary Start combat
// @Tags combat
// @Accept json
// @Produce json
// @Param owner path string true "Owner id"
// @Param request body StartCombatRequest true "Monster"
// @Success 200 {object} domain.CombatState
// @Router /api/v1/characters/{owner}/combat [post]
func (h *CharacterHandler) HandleStartCombat(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	var req StartCombatRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start combat"); err != nil {
		return
	}

	state, err := h.game.StartCombat(r.Context(), owner, req.Tier, req.MonsterID)
	if err != nil {
		respondServiceError(w, r, "start combat", err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// HandleFlee leaves the current fight
// @Summary Flee combat
// @Tags combat
// @Produce json
// @Param owner path string true "Owner id"
// @Success 200 {object} SessionResponse
// @Router /api/v1/characters/{owner}/combat [delete]
func (h *CharacterHandler) HandleFlee(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	summary, err := h.game.Flee(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, "flee", err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Summary: summary})
}

// HandleStartDungeon enters a dungeon, consuming its entry item
// @Summary Start dungeon
// @Tags dungeon
// @Accept json
// @Produce json
// @Param owner path string true "Owner id"
// @Param request body StartDungeonRequest true "Dungeon"
// @Success 200 {object} domain.DungeonRun
// @Router /api/v1/characters/{owner}/dungeon [post]
func (h *CharacterHandler) HandleStartDungeon(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	var req StartDungeonRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start dungeon"); err != nil {
		return
	}

	run, err := h.game.StartDungeon(r.Context(), owner, req.DungeonID, req.Repeats)
	if err != nil {
		respondServiceError(w, r, "start dungeon", err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// HandleAbandonDungeon leaves the current dungeon run
// @Summary Abandon dungeon
// @Tags dungeon
// @Produce json
// @Param owner path string true "Owner id"
// @Success 200 {object} SessionResponse
// @Router /api/v1/characters/{owner}/dungeon [delete]
func (h *CharacterHandler) HandleAbandonDungeon(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	summary, err := h.game.AbandonDungeon(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, "abandon dungeon", err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Summary: summary})
}
