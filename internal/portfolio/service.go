// Package portfolio はユーザーのポートフォリオ管理を提供する。
package portfolio

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harshpasiya/Zodic-bot/internal/model"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
)

// ServiceConfig はポートフォリオサービスの設定。
type ServiceConfig struct {
	StartingCashBalance float64
}

// Service はポートフォリオのユースケースを提供する。
type Service struct {
	portfolioRepo repository.PortfolioRepository
	config        ServiceConfig
}

// NewService は新しいポートフォリオサービスを生成する。
func NewService(portfolioRepo repository.PortfolioRepository, config ServiceConfig) *Service {
	return &Service{
		portfolioRepo: portfolioRepo,
		config:        config,
	}
}

// Get は指定ユーザーのポートフォリオを返す。
// 存在しない場合は初期資金のポートフォリオを作成して返す。
// ログイン以前から存在するユーザーにも遅延的に初期化が効く。
func (s *Service) Get(ctx context.Context, userID string) (*model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolio != nil {
		return portfolio, nil
	}

	portfolio = &model.Portfolio{
		ID:          uuid.NewString(),
		UserID:      userID,
		TotalValue:  0,
		CashBalance: s.config.StartingCashBalance,
		Positions:   []model.Position{},
		DailyPnl:    0,
		TotalPnl:    0,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
		return nil, err
	}

	slog.Info("portfolio created",
		slog.String("user_id", userID),
		slog.String("portfolio_id", portfolio.ID),
	)

	return portfolio, nil
}
