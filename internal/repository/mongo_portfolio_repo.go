package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// MongoPortfolioRepo はMongoDBを使用したポートフォリオリポジトリ。
type MongoPortfolioRepo struct {
	coll *mongo.Collection
}

// NewMongoPortfolioRepo はMongoPortfolioRepoを生成する。
func NewMongoPortfolioRepo(db *mongo.Database) *MongoPortfolioRepo {
	return &MongoPortfolioRepo{coll: db.Collection("portfolios")}
}

// FindByUserID は指定ユーザーのポートフォリオを取得する。見つからない場合はnilを返す。
func (r *MongoPortfolioRepo) FindByUserID(ctx context.Context, userID string) (*model.Portfolio, error) {
	portfolio := &model.Portfolio{}
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(portfolio)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find portfolio: %w", err)
	}
	return portfolio, nil
}

// Create はポートフォリオを作成する。
func (r *MongoPortfolioRepo) Create(ctx context.Context, portfolio *model.Portfolio) error {
	if _, err := r.coll.InsertOne(ctx, portfolio); err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PortfolioRepository = (*MongoPortfolioRepo)(nil)
