// Package auth はセッショントークン（署名付きクレーム）の発行と検証を提供する。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL はトークンの既定の有効期間。
const DefaultTTL = time.Hour

var (
	// ErrInvalidToken はトークンの署名・形式・有効期限のいずれかの検証に失敗したことを示す。
	// 検証失敗はすべてこのエラーでラップされる。
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSecret は署名鍵が設定されていないことを示す。
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

// Identity はログイン時にクライアントが申告した識別情報。
// 内容は検証せず、emailのみクレームの専用フィールドに格納する。
type Identity map[string]any

// Claims はセッショントークンに埋め込まれるクレーム。
type Claims struct {
	Email string         `json:"email"`
	Attrs map[string]any `json:"attrs,omitempty"`
	jwt.RegisteredClaims
}

// Codec はHS256でトークンを署名・検証する。
// 生成後は不変であり、複数のgoroutineから同時に利用できる。
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option はCodecの挙動を設定する。
type Option func(*Codec)

// WithTTL はトークンの有効期間を設定する。0以下は無視する。
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock は時刻の取得元を差し替える（テスト用）。
func WithClock(fn func() time.Time) Option {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewCodec は署名鍵からCodecを生成する。
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	c := &Codec{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL はトークンの有効期間を返す。Cookieの有効期限と揃えるために使用する。
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue は識別情報に発行時刻と有効期限を付与して署名し、トークン文字列を返す。
func (c *Codec) Issue(identity Identity) (string, *Claims, error) {
	now := c.now().UTC()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}
	for k, v := range identity {
		if email, ok := v.(string); ok && k == "email" {
			claims.Email = email
			continue
		}
		if claims.Attrs == nil {
			claims.Attrs = make(map[string]any, len(identity))
		}
		claims.Attrs[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify はトークンの署名と有効期限を検証し、クレームを返す。
// 失敗時のエラーは常にErrInvalidTokenをラップする。
func (c *Codec) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenMalformed)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FailureReason は検証エラーをメトリクス用の理由ラベルに分類する。
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
