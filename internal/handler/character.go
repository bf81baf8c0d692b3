package handler

import (
	"net/http"

	"github.com/osse101/IdleRealm_Go/internal/game"
)

// CharacterHandler serves every per-character operation
type CharacterHandler struct {
	game game.Service
}

// NewCharacterHandler creates a new CharacterHandler
func NewCharacterHandler(svc game.Service) *CharacterHandler {
	return &CharacterHandler{game: svc}
}

// CreateCharacterRequest is the body of POST /characters
type CreateCharacterRequest struct {
	OwnerID string `json:"owner_id" validate:"required,ownerid"`
	Name    string `json:"name" validate:"required,min=2,max=32,excludesall=<>"`
}

// HandleCreate creates the owner's character
// @Summary Create character
// @Description Creates the single character of an owner
// @Tags characters
// @Accept json
// @Produce json
// @Param request body CreateCharacterRequest true "Owner and character name"
// @Success 201 {object} domain.StatusSnapshot
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/characters [post]
func (h *CharacterHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create character"); err != nil {
		return
	}

	status, err := h.game.CreateCharacter(r.Context(), req.OwnerID, req.Name)
	if err != nil {
		respondServiceError(w, r, "create character", err)
		return
	}
	respondJSON(w, http.StatusCreated, status)
}

// HandleGet returns the character status without advancing it
// @Summary Character status
// @Tags characters
// @Produce json
// @Param owner path string true "Owner id"
// @Success 200 {object} domain.StatusSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/characters/{owner} [get]
func (h *CharacterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	status, err := h.game.Status(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, "status", err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// HandleResume replays offline progress and starts live ticking
// @Summary Resume session
// @Description Catches the character up and returns the offline report once
// @Tags characters
// @Produce json
// @Param owner path string true "Owner id"
// @Success 200 {object} game.ResumeResult
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/characters/{owner}/resume [post]
func (h *CharacterHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	res, err := h.game.Resume(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, "resume", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleDisconnect stops live ticking and saves the character
// @Summary End session
// @Tags characters
// @Produce json
// @Param owner path string true "Owner id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/characters/{owner}/disconnect [post]
func (h *CharacterHandler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	owner, r, ok := ownerFromURL(w, r)
	if !ok {
		return
	}
	if err := h.game.Disconnect(r.Context(), owner); err != nil {
		respondServiceError(w, r, "disconnect", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgDisconnected})
}
