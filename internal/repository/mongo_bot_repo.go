package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// MongoBotRepo はMongoDBを使用した取引ボットリポジトリ。
type MongoBotRepo struct {
	coll *mongo.Collection
}

// NewMongoBotRepo はMongoBotRepoを生成する。
func NewMongoBotRepo(db *mongo.Database) *MongoBotRepo {
	return &MongoBotRepo{coll: db.Collection("trading_bots")}
}

// ListByUserID は指定ユーザーの全ボットを返す。
func (r *MongoBotRepo) ListByUserID(ctx context.Context, userID string) ([]*model.TradingBot, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}
	defer cursor.Close(ctx)

	var bots []*model.TradingBot
	if err := cursor.All(ctx, &bots); err != nil {
		return nil, fmt.Errorf("failed to decode bots: %w", err)
	}
	return bots, nil
}

// Create はボットを作成する。
func (r *MongoBotRepo) Create(ctx context.Context, bot *model.TradingBot) error {
	if _, err := r.coll.InsertOne(ctx, bot); err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	return nil
}

// FindByIDAndUserID はボットIDと所有者IDの組で検索する。見つからない場合はnilを返す。
// 他ユーザーのボットは組が一致しないため、存在しない扱いになる。
func (r *MongoBotRepo) FindByIDAndUserID(ctx context.Context, id, userID string) (*model.TradingBot, error) {
	bot := &model.TradingBot{}
	err := r.coll.FindOne(ctx, bson.M{"id": id, "user_id": userID}).Decode(bot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bot: %w", err)
	}
	return bot, nil
}

// SetActive は指定ボットの稼働状態を更新する。
func (r *MongoBotRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		return fmt.Errorf("failed to update bot status: %w", err)
	}
	return nil
}

// CountActive は全ユーザーの稼働中ボット数を返す。
func (r *MongoBotRepo) CountActive(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count active bots: %w", err)
	}
	return count, nil
}

// CountByUserID は指定ユーザーのボット数を返す。
func (r *MongoBotRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bots: %w", err)
	}
	return count, nil
}

// CountActiveByUserID は指定ユーザーの稼働中ボット数を返す。
func (r *MongoBotRepo) CountActiveByUserID(ctx context.Context, userID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count active bots: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ BotRepository = (*MongoBotRepo)(nil)
