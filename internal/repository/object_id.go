package repository

import (
	"errors"

	"github.com/hitoshi/cardoctor/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// parseObjectID は16進24桁の文字列をObjectIDに変換する。
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, model.ErrInvalidID
	}
	return oid, nil
}

func byID(oid primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: oid}}
}

// isUnacknowledged はw:0の書き込みで結果を受け取れなかったことを示すかどうかを返す。
func isUnacknowledged(err error) bool {
	return errors.Is(err, mongo.ErrUnacknowledgedWrite)
}

// idString はInsertedID/UpsertedIDを応答用の文字列に変換する。
func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}
