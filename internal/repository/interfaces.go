// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)

	// UpdateRole は指定ユーザーのロールを更新する。
	// 対象が存在した場合はtrueを返す。
	UpdateRole(ctx context.Context, id string, role model.Role) (bool, error)

	// Count は全ユーザー数を返す。
	Count(ctx context.Context) (int64, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByToken はトークン完全一致でセッションを取得する。見つからない場合はnilを返す。
	// 期限切れ判定は行わない。失効処理は呼び出し側の責務。
	FindByToken(ctx context.Context, token string) (*model.Session, error)

	// DeleteByToken は指定トークンのセッションを削除する。
	// 対象が存在しなくてもエラーにしない。
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired はnow時点で期限切れの全セッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// BotRepository は取引ボットデータの永続化インターフェース。
type BotRepository interface {
	// ListByUserID は指定ユーザーの全ボットを返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.TradingBot, error)

	// Create はボットを作成する。
	Create(ctx context.Context, bot *model.TradingBot) error

	// FindByIDAndUserID はボットIDと所有者IDの組で検索する。見つからない場合はnilを返す。
	FindByIDAndUserID(ctx context.Context, id, userID string) (*model.TradingBot, error)

	// SetActive は指定ボットの稼働状態を更新する。
	SetActive(ctx context.Context, id string, active bool) error

	// CountActive は全ユーザーの稼働中ボット数を返す。
	CountActive(ctx context.Context) (int64, error)

	// CountByUserID は指定ユーザーのボット数を返す。
	CountByUserID(ctx context.Context, userID string) (int64, error)

	// CountActiveByUserID は指定ユーザーの稼働中ボット数を返す。
	CountActiveByUserID(ctx context.Context, userID string) (int64, error)
}

// TradeRepository は約定履歴の永続化インターフェース。
// 履歴は外部プロセスが書き込む前提で、本APIからは読み取りのみ行う。
type TradeRepository interface {
	// ListRecentByUserID は指定ユーザーの約定履歴をexecuted_at降順で最大limit件返す。
	ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*model.Trade, error)

	// Count は全約定件数を返す。
	Count(ctx context.Context) (int64, error)

	// CountByUserID は指定ユーザーの約定件数を返す。
	CountByUserID(ctx context.Context, userID string) (int64, error)
}

// PortfolioRepository はポートフォリオの永続化インターフェース。
type PortfolioRepository interface {
	// FindByUserID は指定ユーザーのポートフォリオを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Portfolio, error)

	// Create はポートフォリオを作成する。
	Create(ctx context.Context, portfolio *model.Portfolio) error
}
