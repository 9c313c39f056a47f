// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"net/http"

	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

const (
	sessionCookieName    = "session_token"
	sessionIDHeader      = "X-Session-ID"
	loginSuccessMessage  = "Session created successfully"
	logoutSuccessMessage = "Logged out successfully"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login はセッションIDを検証しセッショントークンを発行する。
	Login(ctx context.Context, exchangeToken string) (*model.User, string, error)
	// Resolve はトークンを認証済みユーザーに解決する。未認証は(nil, nil)。
	Resolve(ctx context.Context, token string) (*model.User, error)
	// Logout は指定トークンのセッションを破棄する。冪等。
	Logout(ctx context.Context, token string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はセッション認証関連のHTTPハンドラー。
// フロントエンドはクロスサイト構成のため、セッションCookieは
// 常にSecure + SameSite=Noneで発行する。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// CreateSession はフロントエンド発行のセッションIDを検証し、ログインを処理する。
// POST /api/auth/session
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionIDHeader)
	if sessionID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingSessionIDError())
		return
	}

	user, token, err := h.service.Login(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"message": loginSuccessMessage,
	})
}

// Me は現在のログインユーザー情報を返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractSessionToken(r)
	if token == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	user, err := h.service.Resolve(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout はセッションを破棄する。対象セッションが存在しなくても成功として扱い、
// いずれの場合もCookieをクリアする。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractSessionToken(r)
	if token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"message": logoutSuccessMessage,
	})
}
