package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
)

// AssetService handles the fixed asset registry
type AssetService struct {
	repo       repository.AssetRepository
	parishRepo repository.ParishRepository
	auditSvc   *AuditService
}

func NewAssetService(repo repository.AssetRepository, parishRepo repository.ParishRepository, auditSvc *AuditService) *AssetService {
	return &AssetService{repo: repo, parishRepo: parishRepo, auditSvc: auditSvc}
}

func (s *AssetService) FindByID(ctx context.Context, id uint) (*models.Asset, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AssetService) List(ctx context.Context, query *repository.ListQuery) ([]models.Asset, int64, error) {
	return s.repo.List(ctx, query)
}

// ListAvailable returns active assets not reserved by any rental contract.
// Pass parishID = 0 for every parish.
func (s *AssetService) ListAvailable(ctx context.Context, parishID uint) ([]models.Asset, error) {
	return s.repo.ListAvailable(ctx, parishID)
}

func (s *AssetService) Create(ctx context.Context, asset *models.Asset, actorID uint) error {
	if !models.ValidAssetType(asset.Type) {
		return errors.New("loại tài sản không hợp lệ")
	}
	if _, err := s.parishRepo.FindByID(ctx, asset.ParishID); err != nil {
		return fmt.Errorf("giáo xứ không tồn tại: %w", err)
	}
	if asset.Status == "" {
		asset.Status = models.AssetStatusActive
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Asset", asset.ID,
		fmt.Sprintf("Tạo tài sản %s (%s)", asset.Name, asset.Code), "", "")
}

func (s *AssetService) Update(ctx context.Context, asset *models.Asset, actorID uint) error {
	existing, err := s.repo.FindByID(ctx, asset.ID)
	if err != nil {
		return ErrNotFound
	}
	if !models.ValidAssetType(asset.Type) {
		return errors.New("loại tài sản không hợp lệ")
	}
	// The reservation column belongs to the rental workflow, never to edits
	asset.Code = existing.Code
	asset.RentalContractID = existing.RentalContractID
	if err := s.repo.Update(ctx, asset); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Asset", asset.ID,
		fmt.Sprintf("Sửa tài sản %s", asset.Code), "", "")
}

func (s *AssetService) Delete(ctx context.Context, id uint, actorID uint) error {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if asset.RentalContractID != nil {
		return errors.New("không thể xóa tài sản đang gắn với hợp đồng cho thuê")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Asset", id,
		fmt.Sprintf("Xóa tài sản %s", asset.Code), "", "")
}

// MarkDisposed retires an asset from the registry. A reserved asset must be
// released by its rental contract first.
func (s *AssetService) MarkDisposed(ctx context.Context, id uint, status string, actorID uint) error {
	if status != models.AssetStatusSold && status != models.AssetStatusDisposed {
		return ErrInvalidState
	}
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if asset.RentalContractID != nil {
		return errors.New("tài sản đang gắn với hợp đồng cho thuê")
	}
	if asset.Status != models.AssetStatusActive {
		return ErrInvalidState
	}
	asset.Status = status
	if err := s.repo.Update(ctx, asset); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Asset", asset.ID,
		fmt.Sprintf("Thanh lý tài sản %s", asset.Code), "", "")
}
