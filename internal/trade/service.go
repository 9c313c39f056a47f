// Package trade は取引履歴の参照機能を提供する。
// 履歴の書き込みはボット実行基盤が行い、APIからは読み取りのみ。
package trade

import (
	"context"

	"github.com/harshpasiya/Zodic-bot/internal/model"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
)

// historyLimit は1回の履歴取得で返す最大件数。
const historyLimit = 100

// Service は取引履歴のユースケースを提供する。
type Service struct {
	tradeRepo repository.TradeRepository
}

// NewService は新しい取引履歴サービスを生成する。
func NewService(tradeRepo repository.TradeRepository) *Service {
	return &Service{tradeRepo: tradeRepo}
}

// History は指定ユーザーの取引履歴を執行時刻の降順で最大100件返す。
// 履歴が無い場合は空スライスを返す。
func (s *Service) History(ctx context.Context, userID string) ([]*model.Trade, error) {
	trades, err := s.tradeRepo.ListRecentByUserID(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}
	if trades == nil {
		trades = []*model.Trade{}
	}
	return trades, nil
}
