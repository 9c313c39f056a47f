// Package bot は取引ボットの管理機能を提供する。
package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harshpasiya/Zodic-bot/internal/model"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
	"github.com/harshpasiya/Zodic-bot/internal/security"
)

// CreateBotInput はボット作成の入力。
// RiskPercentageがnilの場合はデフォルト値を適用する。
type CreateBotInput struct {
	Name           string
	Strategy       string
	Capital        float64
	RiskPercentage *float64
}

// Service は取引ボットのユースケースを提供する。
type Service struct {
	botRepo   repository.BotRepository
	sanitizer security.TextSanitizerService
}

// NewService は新しいボットサービスを生成する。
func NewService(botRepo repository.BotRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		botRepo:   botRepo,
		sanitizer: sanitizer,
	}
}

// List は指定ユーザーのボット一覧を返す。
// ボットが無い場合は空スライスを返す（nilではなく）。
func (s *Service) List(ctx context.Context, userID string) ([]*model.TradingBot, error) {
	bots, err := s.botRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bots == nil {
		bots = []*model.TradingBot{}
	}
	return bots, nil
}

// Create は新しいボットを検証のうえ作成する。
// 名前と戦略は必須でサニタイズされ、資金は正の値でなければならない。
// 作成直後のボットは停止状態で、実績は空で始まる。
func (s *Service) Create(ctx context.Context, userID string, input CreateBotInput) (*model.TradingBot, error) {
	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, model.NewMissingFieldError("name")
	}

	strategy := s.sanitizer.Sanitize(input.Strategy)
	if strategy == "" {
		return nil, model.NewMissingFieldError("strategy")
	}

	if input.Capital <= 0 {
		return nil, model.NewInvalidCapitalError()
	}

	riskPercentage := model.DefaultRiskPercentage
	if input.RiskPercentage != nil {
		riskPercentage = *input.RiskPercentage
	}

	bot := &model.TradingBot{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           name,
		Strategy:       strategy,
		Capital:        input.Capital,
		RiskPercentage: riskPercentage,
		IsActive:       false,
		CreatedAt:      time.Now().UTC(),
		Performance:    map[string]any{},
	}

	if err := s.botRepo.Create(ctx, bot); err != nil {
		return nil, err
	}

	slog.Info("bot created",
		slog.String("bot_id", bot.ID),
		slog.String("user_id", userID),
		slog.String("strategy", bot.Strategy),
	)

	return bot, nil
}

// Toggle は指定ボットの稼働状態を反転し、新しい状態を返す。
// 他ユーザーのボットは存在しないものとして扱い、BotNotFoundエラーを返す。
func (s *Service) Toggle(ctx context.Context, userID, botID string) (bool, error) {
	bot, err := s.botRepo.FindByIDAndUserID(ctx, botID, userID)
	if err != nil {
		return false, err
	}
	if bot == nil {
		return false, model.NewBotNotFoundError(botID)
	}

	newState := !bot.IsActive
	if err := s.botRepo.SetActive(ctx, botID, newState); err != nil {
		return false, err
	}

	slog.Info("bot toggled",
		slog.String("bot_id", botID),
		slog.String("user_id", userID),
		slog.Bool("is_active", newState),
	)

	return newState, nil
}
