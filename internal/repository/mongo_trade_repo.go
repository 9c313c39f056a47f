package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// MongoTradeRepo はMongoDBを使用した約定履歴リポジトリ。
type MongoTradeRepo struct {
	coll *mongo.Collection
}

// NewMongoTradeRepo はMongoTradeRepoを生成する。
func NewMongoTradeRepo(db *mongo.Database) *MongoTradeRepo {
	return &MongoTradeRepo{coll: db.Collection("trades")}
}

// ListRecentByUserID は指定ユーザーの約定履歴をexecuted_at降順で最大limit件返す。
func (r *MongoTradeRepo) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*model.Trade, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "executed_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer cursor.Close(ctx)

	var trades []*model.Trade
	if err := cursor.All(ctx, &trades); err != nil {
		return nil, fmt.Errorf("failed to decode trades: %w", err)
	}
	return trades, nil
}

// Count は全約定件数を返す。
func (r *MongoTradeRepo) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

// CountByUserID は指定ユーザーの約定件数を返す。
func (r *MongoTradeRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ TradeRepository = (*MongoTradeRepo)(nil)
