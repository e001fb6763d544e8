// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/cardoctor/internal/auth"
	"github.com/hitoshi/cardoctor/internal/model"
)

// TokenCookieName はセッショントークンを格納するCookie名。
const TokenCookieName = "token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに検証済みクレームを格納するためのキー。
var claimsContextKey = contextKey("claims")

// TokenVerifier はトークンの検証に必要なインターフェース。
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthFailureRecorder は認証失敗の記録に必要なインターフェース。
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// NewAuthMiddleware はCookieのセッショントークンを検証するミドルウェアを返す。
// 検証済みクレームをリクエストコンテキストに注入する。
// Cookieがない、空、または検証に失敗した場合は401を返し、後続のハンドラーは実行しない。
func NewAuthMiddleware(verifier TokenVerifier, recorder AuthFailureRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthorized(w, r, recorder, "missing")
				return
			}

			claims, err := verifier.Verify(cookie.Value)
			if err != nil {
				slog.Debug("token verification failed",
					slog.String("error", err.Error()),
				)
				rejectUnauthorized(w, r, recorder, auth.FailureReason(err))
				return
			}

			setLoggedEmail(r.Context(), claims.Email)
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func rejectUnauthorized(w http.ResponseWriter, r *http.Request, recorder AuthFailureRecorder, reason string) {
	if recorder != nil {
		recorder.RecordAuthFailure(reason)
	}
	slog.Warn("unauthorized request",
		slog.String("path", r.URL.Path),
		slog.String("reason", reason),
	)
	WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// ClaimsFromContext はリクエストコンテキストから検証済みクレームを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// ContextWithClaims はコンテキストにクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
