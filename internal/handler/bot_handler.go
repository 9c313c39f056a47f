package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harshpasiya/Zodic-bot/internal/bot"
	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// BotServiceInterface はボットハンドラーが必要とするサービスインターフェース。
type BotServiceInterface interface {
	// List は指定ユーザーのボット一覧を返す。
	List(ctx context.Context, userID string) ([]*model.TradingBot, error)
	// Create は新しいボットを検証のうえ作成する。
	Create(ctx context.Context, userID string, input bot.CreateBotInput) (*model.TradingBot, error)
	// Toggle は指定ボットの稼働状態を反転し、新しい状態を返す。
	Toggle(ctx context.Context, userID, botID string) (bool, error)
}

// BotHandler は取引ボット管理のHTTPハンドラー。
type BotHandler struct {
	service BotServiceInterface
}

// NewBotHandler はBotHandlerを生成する。
func NewBotHandler(service BotServiceInterface) *BotHandler {
	return &BotHandler{service: service}
}

// createBotRequest はボット作成リクエストのボディ。
// risk_percentage未指定とゼロ指定を区別するためポインタで受ける。
type createBotRequest struct {
	Name           string   `json:"name"`
	Strategy       string   `json:"strategy"`
	Capital        float64  `json:"capital"`
	RiskPercentage *float64 `json:"risk_percentage"`
}

// ListBots はログインユーザーのボット一覧を返す。
// GET /api/bots
func (h *BotHandler) ListBots(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	bots, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bots)
}

// CreateBot は新しいボットを作成する。
// POST /api/bots
func (h *BotHandler) CreateBot(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	var req createBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	created, err := h.service.Create(r.Context(), user.ID, bot.CreateBotInput{
		Name:           req.Name,
		Strategy:       req.Strategy,
		Capital:        req.Capital,
		RiskPercentage: req.RiskPercentage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ToggleBot はボットの稼働状態を反転する。
// PUT /api/bots/{botID}/toggle
func (h *BotHandler) ToggleBot(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	botID := chi.URLParam(r, "botID")

	active, err := h.service.Toggle(r.Context(), user.ID, botID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := "Bot deactivated successfully"
	if active {
		message = "Bot activated successfully"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// --- ヘルパー関数 ---

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeNotAuthenticated, model.ErrCodeInvalidExchangeToken:
		return http.StatusUnauthorized
	case model.ErrCodeAdminRequired:
		return http.StatusForbidden
	case model.ErrCodeSymbolNotFound, model.ErrCodeBotNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeMissingSessionID, model.ErrCodeInvalidRequestBody,
		model.ErrCodeMissingField, model.ErrCodeInvalidCapital, model.ErrCodeInvalidRole:
		return http.StatusBadRequest
	case model.ErrCodeExchangeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
