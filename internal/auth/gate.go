package auth

import "github.com/harshpasiya/Zodic-bot/internal/model"

// RequireRole は解決済みユーザーが要求ロールを持つことを検証する純述語。
// 未認証の判定（401）は呼び出し側がこのゲートより先に済ませる前提で、
// ここではロール不一致のみを403相当のエラーとして返す。
// 現状、権限を要求する操作は管理者向けのみのため、エラーは管理者権限不足として表現する。
func RequireRole(user *model.User, role model.Role) error {
	if user != nil && user.Role == role {
		return nil
	}
	return model.NewAdminRequiredError()
}
