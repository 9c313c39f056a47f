// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

const sessionCookieName = "session_token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("user")

// UserResolver はセッショントークンからユーザーを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
// 不明・期限切れトークンは (nil, nil) で報告され、エラーはストア障害のみを表す。
type UserResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// NewSessionMiddleware はリクエストからセッショントークンを読み取り、
// 認証済みユーザーをリクエストコンテキストに注入するミドルウェアを返す。
// トークンはHTTP Only Cookieを優先し、なければAuthorization: Bearerヘッダーを使う。
// 未認証リクエストには401、セッションストア障害には500を返す。
func NewSessionMiddleware(resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractSessionToken(r)
			if token == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				// 解決の失敗はストア障害。トークン自体はログに出さない。
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if user == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractSessionToken はリクエストからセッショントークンを取り出す。
// session_token Cookieを優先し、なければAuthorization: Bearerヘッダーを参照する。
// どちらにも無い場合は空文字列を返す。
func ExtractSessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
