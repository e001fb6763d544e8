// Package catalog はサービスカタログ（整備メニュー）の参照ロジックを提供する。
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitoshi/cardoctor/internal/model"
	"github.com/hitoshi/cardoctor/internal/repository"
)

// Service はサービスカタログのサービス層。読み取りのみを提供する。
type Service struct {
	repo repository.ServiceRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ServiceRepository) *Service {
	return &Service{repo: repo}
}

// List は全サービスを返す。
func (s *Service) List(ctx context.Context) ([]model.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("サービス一覧の取得に失敗しました: %w", err)
	}
	return services, nil
}

// Get は指定IDのサービス概要を返す。
// IDの形式が不正な場合も存在しない場合もSERVICE_NOT_FOUNDとする。
func (s *Service) Get(ctx context.Context, id string) (*model.Service, error) {
	service, err := s.repo.FindSummaryByID(ctx, id)
	if errors.Is(err, model.ErrInvalidID) {
		return nil, model.NewServiceNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("サービスの取得に失敗しました: %w", err)
	}
	if service == nil {
		return nil, model.NewServiceNotFoundError(id)
	}
	return service, nil
}
