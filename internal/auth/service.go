// Package auth はセッション認証・認可のビジネスロジックを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harshpasiya/Zodic-bot/internal/metrics"
	"github.com/harshpasiya/Zodic-bot/internal/model"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
	"github.com/harshpasiya/Zodic-bot/internal/security"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionTTL          time.Duration // セッション有効期間
	StartingCashBalance float64       // 新規ユーザーのポートフォリオ初期残高
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	identity      IdentityClient
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	portfolioRepo repository.PortfolioRepository
	sanitizer     security.TextSanitizerService
	metrics       metrics.MetricsCollector
	config        ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	identity IdentityClient,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	portfolioRepo repository.PortfolioRepository,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
	config ServiceConfig,
) *Service {
	return &Service{
		identity:      identity,
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		portfolioRepo: portfolioRepo,
		sanitizer:     sanitizer,
		metrics:       collector,
		config:        config,
	}
}

// Login はフロントエンド発行のセッションIDを認証交換サービスで検証し、
// セッションを確立する。
// 未登録メールアドレスの場合はユーザーと初期ポートフォリオを自動作成する。
// 同一メールアドレスでの再ログインは既存ユーザーを再利用する（ユーザーは常に1件）。
// 返却するトークンは交換サービスが発行した値そのままで、ローカルでは再生成しない。
func (s *Service) Login(ctx context.Context, exchangeToken string) (*model.User, string, error) {
	start := time.Now()
	data, err := s.identity.FetchSessionData(ctx, exchangeToken)
	s.metrics.RecordExchangeLatency(time.Since(start))
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeInvalidExchangeToken {
			s.metrics.RecordLoginRejected()
		} else {
			s.metrics.RecordLoginFailure()
		}
		// 交換失敗時はローカルレコードを一切作成しない
		return nil, "", err
	}

	user, err := s.userRepo.FindByEmail(ctx, data.Email)
	if err != nil {
		s.metrics.RecordLoginFailure()
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil {
		now := time.Now().UTC()
		user = &model.User{
			ID:      uuid.NewString(),
			Email:   data.Email,
			Name:    s.sanitizer.Sanitize(data.Name),
			Picture: data.Picture,
			// 交換サービスのデータに関わらず必ずclientで作成する
			Role:      model.RoleClient,
			CreatedAt: now,
			IsActive:  true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			s.metrics.RecordLoginFailure()
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}

		portfolio := &model.Portfolio{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			TotalValue:  0,
			CashBalance: s.config.StartingCashBalance,
			Positions:   []model.Position{},
			UpdatedAt:   now,
		}
		if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
			s.metrics.RecordLoginFailure()
			return nil, "", fmt.Errorf("failed to create initial portfolio: %w", err)
		}

		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		SessionToken: data.SessionToken,
		ExpiresAt:    now.Add(s.config.SessionTTL),
		CreatedAt:    now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.metrics.RecordLoginFailure()
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.RecordLoginSuccess()
	// トークンは認証情報のためログに出力しない
	slog.Info("session created", slog.String("user_id", user.ID))

	return user, data.SessionToken, nil
}

// Resolve はトークンを認証済みユーザーに解決する。
// 未認証は(nil, nil)で表現し、非nilのエラーは基盤障害のみを表す。
// 期限切れセッションは解決時に遅延削除する。
func (s *Service) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired(time.Now().UTC()) {
		// 遅延削除。削除に失敗しても解決結果は未認証のまま変わらない。
		if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
			slog.Warn("failed to reap expired session",
				slog.String("user_id", session.UserID),
				slog.String("error", err.Error()),
			)
		} else {
			s.metrics.RecordSessionsReaped(1)
		}
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// 孤立セッション。通常運用では発生しない。
		slog.Warn("session references missing user", slog.String("user_id", session.UserID))
		return nil, nil
	}

	return user, nil
}

// Logout は指定トークンのセッションを破棄する。
// 冪等であり、対象セッションが存在しなくても成功として扱う。
// 空トークンも成功扱い（破棄すべきセッションがない）。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out")
	return nil
}
