package handlers

import (
	"net/http"

	"github.com/steven6143/stock-profit-calculator/internal/api/response"
	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/service"
	"github.com/steven6143/stock-profit-calculator/internal/validation"
)

// PortfolioHandler handles snapshot reads and refresh triggers.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	refreshService   *service.RefreshService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService, refreshService *service.RefreshService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		refreshService:   refreshService,
	}
}

// Snapshot serves the precomputed portfolio snapshot. This is the hot
// read path: no provider calls, one cache read. A cold start returns an
// empty-but-valid snapshot.
func (h *PortfolioHandler) Snapshot(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := h.portfolioService.ReadSnapshot()
	if err != nil {
		response.FromError(w, apperrors.ErrFailedToReadSnapshot.Error(), err)
		return
	}

	response.JSON(w, http.StatusOK, snapshot)
}

// RefreshResponse reports a refresh cycle's outcome. Status is "updated"
// or "nothing-due" so callers can tell an idle cycle from a failed one.
type RefreshResponse struct {
	Status   string `json:"status"`
	Eligible int    `json:"eligible"`
	Updated  int    `json:"updated"`
	Failed   int    `json:"failed"`
}

// Refresh triggers a refresh cycle. Query parameters: force=true bypasses
// the refresh windows; type=equity|fund|all restricts the asset class.
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	filter, err := validation.ValidateTypeFilter(r.URL.Query().Get("type"))
	if err != nil {
		response.FromError(w, "Invalid type filter", err)
		return
	}

	result, err := h.refreshService.Refresh(r.Context(), force, filter)
	if err != nil {
		response.FromError(w, apperrors.ErrFailedToRefresh.Error(), err)
		return
	}

	resp := RefreshResponse{
		Status:   "updated",
		Eligible: result.Eligible,
		Updated:  result.Updated,
		Failed:   result.Failed,
	}
	if result.NothingDue {
		resp.Status = "nothing-due"
	}

	response.JSON(w, http.StatusOK, resp)
}

// ClassifyResponse carries the derived asset type for a code.
type ClassifyResponse struct {
	Code      string `json:"code"`
	AssetType string `json:"assetType"`
}

// Classify exposes the code classification predicate so UI callers use
// exactly the rule the refresh pipeline uses.
func (h *PortfolioHandler) Classify(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.Error(w, http.StatusBadRequest, "Missing code parameter", "")
		return
	}

	response.JSON(w, http.StatusOK, ClassifyResponse{
		Code:      code,
		AssetType: string(model.ClassifyCode(code)),
	})
}
