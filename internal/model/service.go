// Package model はドメインモデルを定義する。
package model

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service は整備メニュー（サービス）を表す。
// servicesコレクションが唯一の所有者であり、アプリケーションは読み取りのみ行う。
// 保存形式はアプリケーションが管理しないため、priceは保存された型のまま保持し、
// 未定義のフィールドはExtraに退避してJSON出力時に元の位置へ戻す。
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ServiceID   string             `bson:"service_id" json:"service_id"`
	Title       string             `bson:"title" json:"title"`
	Price       any                `bson:"price" json:"price"`
	Img         string             `bson:"img" json:"img"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Facility    []Facility         `bson:"facility,omitempty" json:"facility,omitempty"`
	Extra       bson.M             `bson:",inline" json:"-"`
}

// MarshalJSON は定義済みフィールドとExtraを1つのオブジェクトとして出力する。
// キーが重複した場合は定義済みフィールドを優先する。
func (s Service) MarshalJSON() ([]byte, error) {
	type plain Service
	base, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]any, len(s.Extra)+7)
	for k, v := range s.Extra {
		merged[k] = v
	}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("サービスのJSON変換に失敗しました: %w", err)
	}
	return json.Marshal(merged)
}

// Facility はサービスに含まれる設備・作業の説明。
type Facility struct {
	Name    string `bson:"name" json:"name"`
	Details string `bson:"details" json:"details"`
}

// ServiceSummaryFields はサービス詳細取得時に返すフィールド。
var ServiceSummaryFields = []string{"service_id", "price", "title", "img"}
