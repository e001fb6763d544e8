package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// livenessText はGET /の応答本文。
const livenessText = "Doctor is Running"

const healthCheckTimeout = 2 * time.Second

// HealthPinger はデータベースの疎通確認に必要なインターフェース。
type HealthPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler は死活監視のHTTPハンドラー。
type HealthHandler struct {
	pinger HealthPinger
}

// NewHealthHandler はHealthHandlerを生成する。pingerがnilの場合は常に正常とする。
func NewHealthHandler(pinger HealthPinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Root はプロセスの生存を示すテキストを返す。
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(livenessText))
}

// Health はデータベースへのpingで準備状態を返す。失敗時は503。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "unchecked"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		slog.Error("health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Database: "down"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"})
}
