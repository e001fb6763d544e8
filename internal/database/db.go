package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect はMongoDBに接続し、adminデータベースへのpingで疎通を確認する。
// Stable API v1（strict）を指定する。timeoutは接続確認のみに適用する。
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true))
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongodb options: %w", err)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := ping(pingCtx, client.Database("admin")); err != nil {
		disconnectMongo(client, timeout)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// disconnectMongo は接続確認に失敗したクライアントを切断する。
// 切断のエラーは呼び出し元のエラーを優先するためログにのみ記録する。
func disconnectMongo(client *mongo.Client, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		slog.Error("failed to disconnect database", slog.String("error", err.Error()))
	}
}

func ping(ctx context.Context, db *mongo.Database) error {
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// HealthChecker はデータベースの疎通確認を行う。
type HealthChecker struct {
	db *mongo.Database
}

// NewHealthChecker は指定データベースへのpingを行うHealthCheckerを生成する。
func NewHealthChecker(db *mongo.Database) *HealthChecker {
	return &HealthChecker{db: db}
}

// Ping はデータベースにpingコマンドを送り、応答を確認する。
func (h *HealthChecker) Ping(ctx context.Context) error {
	if err := ping(ctx, h.db); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
