package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// defaultSessionDataURL は認証交換サービスのセッションデータエンドポイント。
const defaultSessionDataURL = "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"

// SessionData は認証交換サービスから取得した検証済みプロフィールとトークン。
type SessionData struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// IdentityClient は認証交換サービスのインターフェース。
// フロントエンド発行のセッションIDを検証済みプロフィールに交換する。
type IdentityClient interface {
	// FetchSessionData はセッションIDをプロフィールとセッショントークンに交換する。
	// 交換サービスが非200を返した場合は無効なセッションIDとして、
	// 到達できない場合は基盤障害として、それぞれ区別されたエラーを返す。
	FetchSessionData(ctx context.Context, sessionID string) (*SessionData, error)
}

// IdentityExchangeClient は認証交換サービスのHTTPクライアント。
// タイムアウトは注入されるhttp.Client側で設定する。
type IdentityExchangeClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewIdentityExchangeClient はIdentityExchangeClientの新しいインスタンスを生成する。
// endpointが空の場合はデフォルトのエンドポイントを使用する。
func NewIdentityExchangeClient(httpClient *http.Client, logger *slog.Logger, endpoint string) *IdentityExchangeClient {
	if endpoint == "" {
		endpoint = defaultSessionDataURL
	}
	return &IdentityExchangeClient{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
	}
}

// FetchSessionData はセッションIDをX-Session-IDヘッダーで送信し、
// プロフィールとセッショントークンを取得する。
// セッションIDとトークンは認証情報のため、ログには一切出力しない。
func (c *IdentityExchangeClient) FetchSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session data request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("認証交換サービスの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewExchangeUnavailableError()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 非200はすべて無効なセッションIDとして扱う
		c.logger.Warn("認証交換サービスがセッションIDを拒否しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, model.NewInvalidExchangeTokenError()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("認証交換サービスのレスポンス読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewExchangeUnavailableError()
	}

	var data SessionData
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error("認証交換サービスのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewExchangeUnavailableError()
	}

	// email・session_tokenを欠くレスポンスは契約違反であり、
	// セッションIDの有効性とは無関係なため基盤障害として扱う。
	if data.Email == "" || data.SessionToken == "" {
		c.logger.Error("認証交換サービスのレスポンスに必須フィールドがありません")
		return nil, model.NewExchangeUnavailableError()
	}

	return &data, nil
}

// compile-time interface check
var _ IdentityClient = (*IdentityExchangeClient)(nil)
