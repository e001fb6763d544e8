package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cardoctor/internal/model"
)

// CatalogServiceInterface はサービスハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	// List は全サービスを返す。
	List(ctx context.Context) ([]model.Service, error)
	// Get は指定IDのサービス概要を返す。
	Get(ctx context.Context, id string) (*model.Service, error)
}

// ServiceHandler はサービスカタログのHTTPハンドラー。
type ServiceHandler struct {
	service CatalogServiceInterface
}

// NewServiceHandler はServiceHandlerを生成する。
func NewServiceHandler(service CatalogServiceInterface) *ServiceHandler {
	return &ServiceHandler{service: service}
}

// ListServices は全サービスを返す。
// GET /services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// GetService はサービスの概要（service_id, price, title, img）を返す。
// GET /services/{id}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	service, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service)
}
