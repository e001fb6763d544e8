package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitoshi/cardoctor/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoServiceRepo はMongoDBのservicesコレクションを使用したサービスリポジトリ。
type MongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo はMongoServiceRepoを生成する。
// 未定義フィールドに含まれる埋め込みドキュメントはbson.Mとしてデコードする。
func NewMongoServiceRepo(db *mongo.Database) *MongoServiceRepo {
	opts := options.Collection().SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	return &MongoServiceRepo{coll: db.Collection(ServicesCollection, opts)}
}

var _ ServiceRepository = (*MongoServiceRepo)(nil)

// List は全サービスを取得する。0件の場合は空スライスを返す。
func (r *MongoServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("サービス一覧の取得に失敗しました: %w", err)
	}
	defer cursor.Close(ctx)

	services := []model.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("サービス一覧のデコードに失敗しました: %w", err)
	}
	return services, nil
}

// FindSummaryByID は指定IDのサービスを概要フィールドのみで取得する。
// IDの形式が不正な場合はmodel.ErrInvalidIDを、見つからない場合はnilを返す。
func (r *MongoServiceRepo) FindSummaryByID(ctx context.Context, id string) (*model.Service, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetProjection(summaryProjection())

	var service model.Service
	err = r.coll.FindOne(ctx, byID(oid), opts).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("サービスの取得に失敗しました: %w", err)
	}
	return &service, nil
}

func summaryProjection() bson.D {
	projection := make(bson.D, 0, len(model.ServiceSummaryFields))
	for _, f := range model.ServiceSummaryFields {
		projection = append(projection, bson.E{Key: f, Value: 1})
	}
	return projection
}
