package handler

import (
	"context"
	"net/http"

	"github.com/harshpasiya/Zodic-bot/internal/analytics"
	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// AnalyticsServiceInterface は分析ハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	// Admin はプラットフォーム全体の概況を返す。
	Admin(ctx context.Context) (*analytics.AdminOverview, error)
	// Client は指定ユーザーの概況を返す。
	Client(ctx context.Context, userID string) (*analytics.ClientOverview, error)
}

// AnalyticsHandler はダッシュボード分析のHTTPハンドラー。
type AnalyticsHandler struct {
	service AnalyticsServiceInterface
}

// NewAnalyticsHandler はAnalyticsHandlerを生成する。
func NewAnalyticsHandler(service AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Overview はログインユーザーのロールに応じたダッシュボード概況を返す。
// 管理者はプラットフォーム全体、一般ユーザーは自分のデータのみ。
// GET /api/analytics/overview
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	if user.Role == model.RoleAdmin {
		overview, err := h.service.Admin(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
		return
	}

	overview, err := h.service.Client(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
