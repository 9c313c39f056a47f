package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, market, trading, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNotAuthenticated     = "NOT_AUTHENTICATED"
	ErrCodeInvalidExchangeToken = "INVALID_EXCHANGE_TOKEN"
	ErrCodeExchangeUnavailable  = "IDENTITY_EXCHANGE_UNAVAILABLE"
	ErrCodeAdminRequired        = "ADMIN_REQUIRED"
	ErrCodeMissingSessionID     = "MISSING_SESSION_ID"
	ErrCodeInvalidRequestBody   = "INVALID_REQUEST_BODY"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeInvalidCapital       = "INVALID_CAPITAL"
	ErrCodeInvalidRole          = "INVALID_ROLE"
	ErrCodeSymbolNotFound       = "SYMBOL_NOT_FOUND"
	ErrCodeBotNotFound          = "BOT_NOT_FOUND"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
)

// NewNotAuthenticatedError は未認証エラーを生成する。
func NewNotAuthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAuthenticated,
		Message:  "認証されていません。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewInvalidExchangeTokenError はセッションID検証失敗エラーを生成する。
// 認証交換サービスが非200を返した場合に使う。
func NewInvalidExchangeTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidExchangeToken,
		Message:  "セッションIDの検証に失敗しました。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewExchangeUnavailableError は認証交換サービスに到達できない場合のエラーを生成する。
// 通信内容の詳細はログ側に残し、利用者には提示しない。
func NewExchangeUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeExchangeUnavailable,
		Message:  "認証サービスに接続できませんでした。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewAdminRequiredError は管理者権限が必要な操作に対するエラーを生成する。
func NewAdminRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAdminRequired,
		Message:  "この操作には管理者権限が必要です。",
		Category: "auth",
		Action:   "管理者アカウントでログインしてください。",
	}
}

// NewMissingSessionIDError はX-Session-IDヘッダー未指定エラーを生成する。
func NewMissingSessionIDError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingSessionID,
		Message:  "X-Session-IDヘッダーが指定されていません。",
		Category: "validation",
		Action:   "セッションIDを添えて再度リクエストしてください。",
	}
}

// NewInvalidRequestBodyError はリクエストボディ解析失敗エラーを生成する。
func NewInvalidRequestBodyError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequestBody,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "JSON形式を確認してください。",
	}
}

// NewMissingFieldError は必須フィールド不足エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
		Action:   "リクエストボディの内容を確認してください。",
	}
}

// NewInvalidCapitalError は運用資金が不正な場合のエラーを生成する。
func NewInvalidCapitalError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCapital,
		Message:  "運用資金は0より大きい値を指定してください。",
		Category: "validation",
		Action:   "capitalの値を確認してください。",
	}
}

// NewInvalidRoleError は無効なロールエラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", role),
		Category: "validation",
		Action:   "ロールには admin または client のいずれかを指定してください。",
	}
}

// NewSymbolNotFoundError は銘柄未検出エラーを生成する。
func NewSymbolNotFoundError(symbol string) *APIError {
	return &APIError{
		Code:     ErrCodeSymbolNotFound,
		Message:  fmt.Sprintf("指定された銘柄が見つかりません: %s", symbol),
		Category: "market",
		Action:   "銘柄コードを確認してください。",
	}
}

// NewBotNotFoundError はボット未検出エラーを生成する。
func NewBotNotFoundError(botID string) *APIError {
	return &APIError{
		Code:     ErrCodeBotNotFound,
		Message:  fmt.Sprintf("指定されたボットが見つかりません: %s", botID),
		Category: "trading",
		Action:   "ボットIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}
