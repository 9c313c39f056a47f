package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// MarketServiceInterface は市場データハンドラーが必要とするサービスインターフェース。
type MarketServiceInterface interface {
	// Quotes は全銘柄の気配値テーブルを返す。
	Quotes() map[string]model.Quote
	// Quote は指定銘柄の気配値を正規化済み銘柄コードとともに返す。
	Quote(symbol string) (string, model.Quote, error)
}

// MarketHandler はモック市場データのHTTPハンドラー。
// 市場データは公開情報のため認証を要求しない。
type MarketHandler struct {
	service MarketServiceInterface
}

// NewMarketHandler はMarketHandlerを生成する。
func NewMarketHandler(service MarketServiceInterface) *MarketHandler {
	return &MarketHandler{service: service}
}

// ListStocks は全銘柄の気配値を返す。
// GET /api/market/stocks
func (h *MarketHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Quotes())
}

// GetStock は指定銘柄の気配値を返す。
// 既存フロントエンドとの互換のため、単一銘柄でもマップ形式で返す。
// GET /api/market/stocks/{symbol}
func (h *MarketHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	canonical, quote, err := h.service.Quote(symbol)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]model.Quote{canonical: quote})
}
