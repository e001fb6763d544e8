package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// BookingStatus は予約の状態を表す。
type BookingStatus string

const (
	// BookingStatusPending は確定前の予約。statusが保存されていない予約もこの状態として扱う。
	BookingStatusPending BookingStatus = "pending"
	// BookingStatusConfirm は確定済みの予約。
	BookingStatusConfirm BookingStatus = "confirm"
)

// Valid は定義済みの状態かどうかを返す。
func (s BookingStatus) Valid() bool {
	return s == BookingStatusPending || s == BookingStatusConfirm
}

// Booking はサービスの予約を表す。
type Booking struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CustomerName string             `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Date         string             `bson:"date,omitempty" json:"date,omitempty"`
	Service      string             `bson:"service,omitempty" json:"service,omitempty"`
	ServiceID    string             `bson:"service_id" json:"service_id"`
	Price        string             `bson:"price,omitempty" json:"price,omitempty"`
	Img          string             `bson:"img,omitempty" json:"img,omitempty"`
	Status       BookingStatus      `bson:"status,omitempty" json:"status"`
}

// Normalize は保存時にstatusを持たなかった予約をpendingとして扱う。
func (b *Booking) Normalize() {
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
}

// BookingInput はPOST /bookingsで受け付ける予約ドキュメント。
// 未知のフィールドはデコード時に拒否する。
type BookingInput struct {
	CustomerName string        `json:"customerName"`
	Email        string        `json:"email"`
	Date         string        `json:"date"`
	Service      string        `json:"service"`
	ServiceID    string        `json:"service_id"`
	Price        string        `json:"price"`
	Img          string        `json:"img"`
	Status       BookingStatus `json:"status"`
}
