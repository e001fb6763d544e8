package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitoshi/cardoctor/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo はMongoDBのbookingsコレクションを使用した予約リポジトリ。
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo はMongoBookingRepoを生成する。
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection(BookingsCollection)}
}

var _ BookingRepository = (*MongoBookingRepo)(nil)

// Create は予約を作成する。IDは採番してbookingに設定する。
func (r *MongoBookingRepo) Create(ctx context.Context, booking *model.Booking) (*model.InsertAck, error) {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.Normalize()

	res, err := r.coll.InsertOne(ctx, booking)
	if isUnacknowledged(err) {
		return &model.InsertAck{Acknowledged: false, InsertedID: booking.ID.Hex()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("予約の作成に失敗しました: %w", err)
	}

	return &model.InsertAck{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

// FindByID は指定IDの予約を取得する。
// IDの形式が不正な場合はmodel.ErrInvalidIDを、見つからない場合はnilを返す。
func (r *MongoBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	err = r.coll.FindOne(ctx, byID(oid)).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}

	booking.Normalize()
	return &booking, nil
}

// ListByEmail は指定emailの予約を全件取得する。0件の場合は空スライスを返す。
func (r *MongoBookingRepo) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("予約一覧のデコードに失敗しました: %w", err)
	}
	for i := range bookings {
		bookings[i].Normalize()
	}
	return bookings, nil
}

// DeleteByID は指定IDの予約を削除する。該当がない場合もエラーにせず件数0を返す。
func (r *MongoBookingRepo) DeleteByID(ctx context.Context, id string) (*model.DeleteAck, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	res, err := r.coll.DeleteOne(ctx, byID(oid))
	if isUnacknowledged(err) {
		return &model.DeleteAck{Acknowledged: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("予約の削除に失敗しました: %w", err)
	}

	return &model.DeleteAck{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// UpdateStatus は指定IDの予約のstatusを更新する。該当がない場合もエラーにせず件数0を返す。
// すでに同じstatusの場合はmodifiedCountが0になる。
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.UpdateAck, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}
	res, err := r.coll.UpdateOne(ctx, byID(oid), update)
	if isUnacknowledged(err) {
		return &model.UpdateAck{Acknowledged: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("予約の更新に失敗しました: %w", err)
	}

	ack := &model.UpdateAck{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		upserted := idString(res.UpsertedID)
		ack.UpsertedID = &upserted
	}
	return ack, nil
}
