package handler

import (
	"context"
	"time"

	"github.com/hitoshi/cardoctor/internal/auth"
	"github.com/hitoshi/cardoctor/internal/model"
)

// --- モック定義 ---

// mockTokenIssuer はTokenIssuerのモック実装。
type mockTokenIssuer struct {
	issueFn func(identity auth.Identity) (string, *auth.Claims, error)
	ttl     time.Duration
}

func (m *mockTokenIssuer) Issue(identity auth.Identity) (string, *auth.Claims, error) {
	if m.issueFn != nil {
		return m.issueFn(identity)
	}
	email, _ := identity["email"].(string)
	return "signed-token", &auth.Claims{Email: email}, nil
}

func (m *mockTokenIssuer) TTL() time.Duration {
	if m.ttl == 0 {
		return time.Hour
	}
	return m.ttl
}

// mockIssuanceRecorder はTokenIssuanceRecorderのモック実装。
type mockIssuanceRecorder struct {
	issued int
}

func (m *mockIssuanceRecorder) RecordTokenIssued() {
	m.issued++
}

// mockCatalogService はCatalogServiceInterfaceのモック実装。
type mockCatalogService struct {
	listFn func(ctx context.Context) ([]model.Service, error)
	getFn  func(ctx context.Context, id string) (*model.Service, error)
}

func (m *mockCatalogService) List(ctx context.Context) ([]model.Service, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Service{}, nil
}

func (m *mockCatalogService) Get(ctx context.Context, id string) (*model.Service, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewServiceNotFoundError(id)
}

// mockBookingService はBookingServiceInterfaceのモック実装。
type mockBookingService struct {
	createFn  func(ctx context.Context, in model.BookingInput) (*model.InsertAck, error)
	listFn    func(ctx context.Context, ownerEmail, queryEmail string) ([]model.Booking, error)
	getFn     func(ctx context.Context, ownerEmail, id string) (*model.Booking, error)
	confirmFn func(ctx context.Context, id string) (*model.UpdateAck, error)
	deleteFn  func(ctx context.Context, id string) (*model.DeleteAck, error)
}

func (m *mockBookingService) Create(ctx context.Context, in model.BookingInput) (*model.InsertAck, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.InsertAck{Acknowledged: true}, nil
}

func (m *mockBookingService) List(ctx context.Context, ownerEmail, queryEmail string) ([]model.Booking, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerEmail, queryEmail)
	}
	return []model.Booking{}, nil
}

func (m *mockBookingService) Get(ctx context.Context, ownerEmail, id string) (*model.Booking, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ownerEmail, id)
	}
	return nil, model.NewBookingNotFoundError(id)
}

func (m *mockBookingService) Confirm(ctx context.Context, id string) (*model.UpdateAck, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, id)
	}
	return &model.UpdateAck{Acknowledged: true}, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) (*model.DeleteAck, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return &model.DeleteAck{Acknowledged: true}, nil
}

// mockPinger はHealthPingerのモック実装。
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// mockTokenVerifier はmiddleware.TokenVerifierのモック実装。
// 値が"valid-<email>"のトークンのみを受け付ける。
type mockTokenVerifier struct{}

func (mockTokenVerifier) Verify(token string) (*auth.Claims, error) {
	const prefix = "valid-"
	if len(token) > len(prefix) && token[:len(prefix)] == prefix {
		return &auth.Claims{Email: token[len(prefix):]}, nil
	}
	return nil, auth.ErrInvalidToken
}
