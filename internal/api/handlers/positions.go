package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/steven6143/stock-profit-calculator/internal/api/response"
	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/service"
)

// PositionHandler handles position-related HTTP requests
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// PositionResponse represents a position in API responses
type PositionResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	AssetType string    `json:"assetType"`
	CostPrice float64   `json:"costPrice"`
	Shares    float64   `json:"shares"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toPositionResponse(p model.Position) PositionResponse {
	return PositionResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		AssetType: string(p.AssetType()),
		CostPrice: p.CostPrice,
		Shares:    p.Shares,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// List returns all positions, most recently touched first.
func (h *PositionHandler) List(w http.ResponseWriter, _ *http.Request) {
	positions, err := h.positionService.ListPositions()
	if err != nil {
		response.FromError(w, apperrors.ErrFailedToRetrievePositions.Error(), err)
		return
	}

	resp := make([]PositionResponse, len(positions))
	for i, p := range positions {
		resp[i] = toPositionResponse(p)
	}

	response.JSON(w, http.StatusOK, resp)
}

// Get returns one position by code and bumps its last-touched timestamp.
func (h *PositionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	p, err := h.positionService.GetPosition(code)
	if err != nil {
		response.FromError(w, apperrors.ErrFailedToRetrievePositions.Error(), err)
		return
	}

	response.JSON(w, http.StatusOK, toPositionResponse(p))
}

// SavePositionRequest is the body accepted by Save.
type SavePositionRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	CostPrice float64 `json:"costPrice"`
	Shares    float64 `json:"shares"`
}

// Save upserts a position by code. Validation failures return 400 before
// any write.
func (h *PositionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SavePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	saved, err := h.positionService.SavePosition(model.Position{
		Code:      req.Code,
		Name:      req.Name,
		CostPrice: req.CostPrice,
		Shares:    req.Shares,
	})
	if err != nil {
		response.FromError(w, apperrors.ErrFailedToSavePosition.Error(), err)
		return
	}

	response.JSON(w, http.StatusOK, toPositionResponse(saved))
}

// Delete removes a position by code.
func (h *PositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.positionService.DeletePosition(code); err != nil {
		response.FromError(w, apperrors.ErrFailedToDeletePosition.Error(), err)
		return
	}

	response.JSON(w, http.StatusNoContent, nil)
}
