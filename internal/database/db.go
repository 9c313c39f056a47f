// Package database はMongoDB接続とインデックス管理を提供する。
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connectTimeout は接続確立とPingの上限時間。
const connectTimeout = 10 * time.Second

// Connect はMongoDBクライアントを生成し、Pingで疎通確認まで行う。
// 呼び出し側はプロセス終了時にDisconnectを呼ぶこと。
func Connect(ctx context.Context, mongoURL string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// Disconnect はMongoDBクライアントを切断する。
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes は全コレクションのインデックスを作成する。
// CreateManyは既存と同一定義のインデックスを無視するため、起動のたびに呼んでも安全。
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	targets := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			},
		},
		{
			collection: "sessions",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "session_token", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "expires_at", Value: 1}}},
			},
		},
		{
			collection: "trading_bots",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "user_id", Value: 1}}},
			},
		},
		{
			collection: "trades",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "executed_at", Value: -1}}},
			},
		},
		{
			collection: "portfolios",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "user_id", Value: 1}}},
			},
		},
	}

	for _, t := range targets {
		if _, err := db.Collection(t.collection).Indexes().CreateMany(ctx, t.models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", t.collection, err)
		}
	}
	return nil
}
