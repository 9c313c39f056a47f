package middleware

import (
	"net/http"

	"github.com/harshpasiya/Zodic-bot/internal/auth"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// NewRequireRoleMiddleware は認証済みユーザーが指定ロールを持つことを要求する
// ミドルウェアを返す。セッションミドルウェアの後に配置すること。
// ロール不一致には403を返す。認証自体の検証（401）はセッションミドルウェアが担う。
func NewRequireRoleMiddleware(role model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r.Context())
			if err != nil {
				// セッションミドルウェアを経ていない構成ミス。未認証として扱う。
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
				return
			}

			if err := auth.RequireRole(user, role); err != nil {
				WriteErrorResponse(w, http.StatusForbidden, model.NewAdminRequiredError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
