package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// MongoSessionRepo はMongoDBを使用したセッションリポジトリ。
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo はMongoSessionRepoを生成する。
func NewMongoSessionRepo(db *mongo.Database) *MongoSessionRepo {
	return &MongoSessionRepo{coll: db.Collection("sessions")}
}

// Create はセッションを作成する。
func (r *MongoSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByToken はトークン完全一致でセッションを取得する。見つからない場合はnilを返す。
// 期限切れのレコードもそのまま返す。失効判定と遅延削除は呼び出し側が行う。
func (r *MongoSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	session := &model.Session{}
	err := r.coll.FindOne(ctx, bson.M{"session_token": token}).Decode(session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// DeleteByToken は指定トークンのセッションを削除する。
// 対象が存在しなくてもエラーにしない。
func (r *MongoSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"session_token": token}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired はnow時点で期限切れの全セッションを削除し、削除件数を返す。
func (r *MongoSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.DeletedCount, nil
}

// compile-time interface check
var _ SessionRepository = (*MongoSessionRepo)(nil)
