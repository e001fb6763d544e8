// Package booking は予約管理のドメインロジックを提供する。
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/hitoshi/cardoctor/internal/metrics"
	"github.com/hitoshi/cardoctor/internal/model"
	"github.com/hitoshi/cardoctor/internal/repository"
	"github.com/hitoshi/cardoctor/internal/security"
)

// ActionRecorder は予約操作の記録に必要なインターフェース。
type ActionRecorder interface {
	RecordBookingAction(action string)
}

// Service は予約管理のサービス層。
// 予約の作成、一覧取得、取得、確定、削除のビジネスロジックを提供する。
type Service struct {
	repo      repository.BookingRepository
	sanitizer security.TextSanitizer
	recorder  ActionRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderがnilの場合は記録しない。
func NewService(repo repository.BookingRepository, sanitizer security.TextSanitizer, recorder ActionRecorder) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// Create は入力を検証して予約を作成する。
// emailとservice_idは必須。statusは省略時pendingとし、pending/confirm以外は拒否する。
// customerName、service、dateはタグを除去してから保存する。
func (s *Service) Create(ctx context.Context, in model.BookingInput) (*model.InsertAck, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, model.NewInvalidRequestError("email is required")
	}
	if !validEmail(email) {
		return nil, model.NewInvalidRequestError("email is not a valid address")
	}

	serviceID := strings.TrimSpace(in.ServiceID)
	if serviceID == "" {
		return nil, model.NewInvalidRequestError("service_id is required")
	}

	status := in.Status
	if status == "" {
		status = model.BookingStatusPending
	}
	if !status.Valid() {
		return nil, model.NewInvalidRequestError(fmt.Sprintf("status must be %q or %q", model.BookingStatusPending, model.BookingStatusConfirm))
	}

	booking := &model.Booking{
		CustomerName: s.sanitizer.Sanitize(in.CustomerName),
		Email:        email,
		Date:         s.sanitizer.Sanitize(in.Date),
		Service:      s.sanitizer.Sanitize(in.Service),
		ServiceID:    serviceID,
		Price:        strings.TrimSpace(in.Price),
		Img:          strings.TrimSpace(in.Img),
		Status:       status,
	}

	ack, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("予約の作成に失敗しました: %w", err)
	}

	s.recorder.RecordBookingAction(metrics.BookingActionCreate)
	slog.Info("booking created",
		slog.String("booking_id", ack.InsertedID),
		slog.String("service_id", serviceID),
	)
	return ack, nil
}

// List は認証済みemailの予約一覧を返す。
// クエリのemailが認証済みemailと一致しない場合（未指定を含む）はFORBIDDENとする。
func (s *Service) List(ctx context.Context, ownerEmail, queryEmail string) ([]model.Booking, error) {
	if ownerEmail == "" || queryEmail != ownerEmail {
		return nil, model.NewForbiddenError()
	}

	bookings, err := s.repo.ListByEmail(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	return bookings, nil
}

// Get は指定IDの予約を返す。予約のemailが認証済みemailと異なる場合はFORBIDDENとする。
func (s *Service) Get(ctx context.Context, ownerEmail, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, model.ErrInvalidID) {
		return nil, model.NewInvalidBookingIDError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	if booking == nil {
		return nil, model.NewBookingNotFoundError(id)
	}
	if booking.Email != ownerEmail {
		return nil, model.NewForbiddenError()
	}
	return booking, nil
}

// Confirm は指定IDの予約のstatusをconfirmにする。
// 該当がない場合やすでにconfirmの場合も、ストレージの確認応答をそのまま返す。
func (s *Service) Confirm(ctx context.Context, id string) (*model.UpdateAck, error) {
	ack, err := s.repo.UpdateStatus(ctx, id, model.BookingStatusConfirm)
	if errors.Is(err, model.ErrInvalidID) {
		return nil, model.NewInvalidBookingIDError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("予約の確定に失敗しました: %w", err)
	}

	if ack.ModifiedCount > 0 {
		s.recorder.RecordBookingAction(metrics.BookingActionConfirm)
	}
	return ack, nil
}

// Delete は指定IDの予約を削除する。該当がない場合も件数0の確認応答を返す。
func (s *Service) Delete(ctx context.Context, id string) (*model.DeleteAck, error) {
	ack, err := s.repo.DeleteByID(ctx, id)
	if errors.Is(err, model.ErrInvalidID) {
		return nil, model.NewInvalidBookingIDError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("予約の削除に失敗しました: %w", err)
	}

	if ack.DeletedCount > 0 {
		s.recorder.RecordBookingAction(metrics.BookingActionDelete)
	}
	return ack, nil
}

// validEmail は表示名を含まない単一のアドレスかどうかを返す。
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && addr.Name == ""
}
