package handler

import (
	"context"
	"net/http"

	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// TradeServiceInterface は約定履歴ハンドラーが必要とするサービスインターフェース。
type TradeServiceInterface interface {
	// History は指定ユーザーの約定履歴を新しい順に返す。
	History(ctx context.Context, userID string) ([]*model.Trade, error)
}

// TradeHandler は約定履歴のHTTPハンドラー。
type TradeHandler struct {
	service TradeServiceInterface
}

// NewTradeHandler はTradeHandlerを生成する。
func NewTradeHandler(service TradeServiceInterface) *TradeHandler {
	return &TradeHandler{service: service}
}

// ListTrades はログインユーザーの約定履歴を返す。
// GET /api/trades
func (h *TradeHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	trades, err := h.service.History(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trades)
}
