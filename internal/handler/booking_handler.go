package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cardoctor/internal/middleware"
	"github.com/hitoshi/cardoctor/internal/model"
)

// BookingServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type BookingServiceInterface interface {
	// Create は予約を作成する。
	Create(ctx context.Context, in model.BookingInput) (*model.InsertAck, error)
	// List は認証済みemailの予約一覧を返す。
	List(ctx context.Context, ownerEmail, queryEmail string) ([]model.Booking, error)
	// Get は指定IDの予約を返す。
	Get(ctx context.Context, ownerEmail, id string) (*model.Booking, error)
	// Confirm は予約をconfirmにする。
	Confirm(ctx context.Context, id string) (*model.UpdateAck, error)
	// Delete は予約を削除する。
	Delete(ctx context.Context, id string) (*model.DeleteAck, error)
}

// BookingHandler は予約管理のHTTPハンドラー。
type BookingHandler struct {
	service BookingServiceInterface
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(service BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// CreateBooking は予約を作成し、insert-oneの確認応答を返す。
// POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in model.BookingInput
	if apiErr := decodeJSONBody(w, r, &in, true); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	ack, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// ListBookings は認証済みユーザー自身の予約一覧を返す。
// クエリのemailがクレームのemailと異なる場合は403。
// GET /bookings?email=
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	bookings, err := h.service.List(r.Context(), claims.Email, r.URL.Query().Get("email"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetBooking は認証済みユーザー自身の予約を1件返す。
// GET /bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	booking, err := h.service.Get(r.Context(), claims.Email, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// ConfirmBooking は予約のstatusをconfirmにし、update-oneの確認応答を返す。
// リクエストボディは参照しない。
// PATCH /bookings/{id}
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	ack, err := h.service.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// DeleteBooking は予約を削除し、delete-oneの確認応答を返す。
// DELETE /bookings/{id}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ack, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}
