package handler

import (
	"context"
	"net/http"

	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// PortfolioServiceInterface はポートフォリオハンドラーが必要とするサービスインターフェース。
type PortfolioServiceInterface interface {
	// Get は指定ユーザーのポートフォリオを返す。未作成なら初期残高付きで作成する。
	Get(ctx context.Context, userID string) (*model.Portfolio, error)
}

// PortfolioHandler はポートフォリオのHTTPハンドラー。
type PortfolioHandler struct {
	service PortfolioServiceInterface
}

// NewPortfolioHandler はPortfolioHandlerを生成する。
func NewPortfolioHandler(service PortfolioServiceInterface) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// GetPortfolio はログインユーザーのポートフォリオを返す。
// GET /api/portfolio
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	portfolio, err := h.service.Get(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, portfolio)
}
