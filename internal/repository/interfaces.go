// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/cardoctor/internal/model"
)

// コレクション名
const (
	ServicesCollection = "services"
	BookingsCollection = "bookings"
)

// ServiceRepository はサービスカタログの読み取りインターフェース。
type ServiceRepository interface {
	// List は全サービスを取得する。0件の場合は空スライスを返す。
	List(ctx context.Context) ([]model.Service, error)

	// FindSummaryByID は指定IDのサービスをservice_id, price, title, imgのみに絞って取得する。
	// IDの形式が不正な場合はmodel.ErrInvalidIDを、見つからない場合はnilを返す。
	FindSummaryByID(ctx context.Context, id string) (*model.Service, error)
}

// BookingRepository は予約データの永続化インターフェース。
type BookingRepository interface {
	// Create は予約を作成する。IDは採番してbookingに設定する。
	Create(ctx context.Context, booking *model.Booking) (*model.InsertAck, error)

	// FindByID は指定IDの予約を取得する。
	// IDの形式が不正な場合はmodel.ErrInvalidIDを、見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Booking, error)

	// ListByEmail は指定emailの予約を全件取得する。0件の場合は空スライスを返す。
	ListByEmail(ctx context.Context, email string) ([]model.Booking, error)

	// DeleteByID は指定IDの予約を削除する。該当がない場合もエラーにせず件数0を返す。
	DeleteByID(ctx context.Context, id string) (*model.DeleteAck, error)

	// UpdateStatus は指定IDの予約のstatusを更新する。該当がない場合もエラーにせず件数0を返す。
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.UpdateAck, error)
}
