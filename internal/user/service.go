// Package user は管理者向けユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harshpasiya/Zodic-bot/internal/model"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
)

// Service はユーザー管理のサービス層。
// ユーザー一覧とロール変更はいずれも管理者限定の操作。
// アクセス制御はハンドラ側のミドルウェアが担い、本層は権限を前提にしない。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// List は全ユーザーを返す。該当ゼロでも空スライスを返し、nilは返さない。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// UpdateRole は指定ユーザーのロールを変更する。
// ロール文字列の検証を通過しない場合、対象ユーザーが存在しない場合はAPIErrorを返す。
func (s *Service) UpdateRole(ctx context.Context, userID, rawRole string) error {
	role, err := model.ParseRole(rawRole)
	if err != nil {
		return model.NewInvalidRoleError(rawRole)
	}

	matched, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if !matched {
		return model.NewUserNotFoundError(userID)
	}

	slog.Info("user role updated",
		slog.String("user_id", userID),
		slog.String("role", role.String()),
	)
	return nil
}
