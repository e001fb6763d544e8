package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/cardoctor/internal/auth"
	"github.com/hitoshi/cardoctor/internal/middleware"
	"github.com/hitoshi/cardoctor/internal/model"
)

// TokenIssuer はセッションハンドラーが必要とするトークン発行インターフェース。
type TokenIssuer interface {
	// Issue は識別情報からトークンを発行する。
	Issue(identity auth.Identity) (string, *auth.Claims, error)
	// TTL はトークンの有効期間を返す。
	TTL() time.Duration
}

// TokenIssuanceRecorder はトークン発行の記録に必要なインターフェース。
type TokenIssuanceRecorder interface {
	RecordTokenIssued()
}

// SessionHandlerConfig はセッションハンドラーの設定。
type SessionHandlerConfig struct {
	// CookieSecure がtrueの場合はSecure属性とSameSite=Noneを付与する。
	// falseはHTTPでのローカル開発用で、SameSite=Laxになる。
	CookieSecure bool
}

// SessionHandler はトークン発行とログアウトのHTTPハンドラー。
type SessionHandler struct {
	issuer   TokenIssuer
	recorder TokenIssuanceRecorder
	config   SessionHandlerConfig
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(issuer TokenIssuer, recorder TokenIssuanceRecorder, config SessionHandlerConfig) *SessionHandler {
	return &SessionHandler{
		issuer:   issuer,
		recorder: recorder,
		config:   config,
	}
}

// successResponse は成功のみを返すレスポンス。
type successResponse struct {
	Success bool `json:"success"`
}

// IssueToken は申告された識別情報からトークンを発行し、Cookieに設定する。
// 保存済みアカウントとの照合は行わない。
// POST /jwt
func (h *SessionHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var identity map[string]any
	if apiErr := decodeJSONBody(w, r, &identity, false); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if identity == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("identity must be a JSON object"))
		return
	}

	email, ok := identity["email"].(string)
	if !ok || strings.TrimSpace(email) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("email is required"))
		return
	}

	token, claims, err := h.issuer.Issue(auth.Identity(identity))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if h.recorder != nil {
		h.recorder.RecordTokenIssued()
	}

	http.SetCookie(w, h.tokenCookie(token, int(h.issuer.TTL().Seconds())))

	slog.Info("token issued",
		slog.String("email", claims.Email),
		slog.String("jti", claims.ID),
	)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Logout はトークンCookieを削除する。サーバー側でのトークン失効は行わない。
// POST /logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokenCookie("", -1))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// tokenCookie はトークンCookieを生成する。maxAgeが負の場合は削除用のCookieになる。
func (h *SessionHandler) tokenCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.config.CookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: sameSite,
	}
}
