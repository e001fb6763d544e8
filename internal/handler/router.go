package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/cardoctor/internal/metrics"
	"github.com/hitoshi/cardoctor/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	CookieSecure      bool
	RateLimiter       *middleware.RateLimiter
	TokenVerifier     middleware.TokenVerifier
	Metrics           metrics.MetricsCollector

	// /metrics のハンドラー。nilの場合は公開しない。
	MetricsHandler http.Handler

	// ヘルスチェック
	HealthPinger HealthPinger

	// セッション
	TokenIssuer TokenIssuer

	// サービスカタログ
	CatalogService CatalogServiceInterface

	// 予約
	BookingService BookingServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Logging → Recovery → Metrics → SecurityHeaders → CORS
//
// 認証が必要なルートは Auth → RateLimit(General) の順に、
// それ以外は RateLimit(General) のみを適用する。/jwt はさらにLoginのレート制限を受ける。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	general := passthrough
	login := passthrough
	if deps.RateLimiter != nil {
		general = deps.RateLimiter.GeneralMiddleware()
		login = deps.RateLimiter.LoginMiddleware()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.CookieSecure))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	healthHandler := NewHealthHandler(deps.HealthPinger)
	sessionHandler := NewSessionHandler(deps.TokenIssuer, collector, SessionHandlerConfig{CookieSecure: deps.CookieSecure})
	serviceHandler := NewServiceHandler(deps.CatalogService)
	bookingHandler := NewBookingHandler(deps.BookingService)

	// --- 監視用のルート（レート制限なし） ---
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証不要のルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(general)

		// セッション（トークン発行は専用レート制限を追加）
		r.With(login).Post("/jwt", sessionHandler.IssueToken)
		r.Post("/logout", sessionHandler.Logout)

		// サービスカタログ
		r.Get("/services", serviceHandler.ListServices)
		r.Get("/services/{id}", serviceHandler.GetService)

		// 予約の作成・確定・削除
		r.Post("/bookings", bookingHandler.CreateBooking)
		r.Patch("/bookings/{id}", bookingHandler.ConfirmBooking)
		r.Delete("/bookings/{id}", bookingHandler.DeleteBooking)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, collector))
		r.Use(general)

		r.Get("/bookings", bookingHandler.ListBookings)
		r.Get("/bookings/{id}", bookingHandler.GetBooking)
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
