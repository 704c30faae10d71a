package repository

import (
	"context"
	"errors"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"gorm.io/gorm"
)

// ErrAssetClaimed is returned when an asset is already attached to another
// rental contract or is not rentable.
var ErrAssetClaimed = errors.New("asset already claimed by another rental contract")

// RentalContractRepository defines the interface for rental contract data access
type RentalContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.RentalContract, error)
	Create(ctx context.Context, contract *models.RentalContract) error
	CreateAndClaimAsset(ctx context.Context, contract *models.RentalContract) error
	Update(ctx context.Context, contract *models.RentalContract) error
	UpdateAndReleaseAsset(ctx context.Context, contract *models.RentalContract) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *RentalQuery) ([]models.RentalContract, int64, error)
	FindActivePastEndDate(ctx context.Context) ([]models.RentalContract, error)
}

// RentalQuery extends ListQuery with rental-contract-specific filters
type RentalQuery struct {
	*ListQuery
	Status   string
	ParishID uint
	AssetID  uint
}

type rentalContractRepository struct {
	db *gorm.DB
}

// NewRentalContractRepository creates a new rental contract repository
func NewRentalContractRepository(db *gorm.DB) RentalContractRepository {
	return &rentalContractRepository{db: db}
}

func (r *rentalContractRepository) FindByID(ctx context.Context, id uint) (*models.RentalContract, error) {
	var contract models.RentalContract
	err := r.db.WithContext(ctx).
		Preload("Parish").
		Preload("Asset").
		Preload("BankAccount").
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *rentalContractRepository) Create(ctx context.Context, contract *models.RentalContract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

// CreateAndClaimAsset creates the contract and claims its asset in one
// database transaction. The claim is a conditional UPDATE on the asset row
// that only succeeds while the asset is unclaimed and active, so two
// contracts racing for the same asset cannot both win: the loser's UPDATE
// touches zero rows and the insert rolls back.
func (r *rentalContractRepository) CreateAndClaimAsset(ctx context.Context, contract *models.RentalContract) error {
	if contract.AssetID == nil {
		return r.Create(ctx, contract)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Asset{}).
			Where("id = ? AND rental_contract_id IS NULL AND status = ?",
				*contract.AssetID, models.AssetStatusActive).
			Update("rental_contract_id", contract.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAssetClaimed
		}
		return nil
	})
}

func (r *rentalContractRepository) Update(ctx context.Context, contract *models.RentalContract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// UpdateAndReleaseAsset saves the contract and clears the asset claim in one
// database transaction. Used when a contract terminates or expires.
func (r *rentalContractRepository) UpdateAndReleaseAsset(ctx context.Context, contract *models.RentalContract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(contract).Error; err != nil {
			return err
		}
		if contract.AssetID == nil {
			return nil
		}
		return tx.Model(&models.Asset{}).
			Where("id = ? AND rental_contract_id = ?", *contract.AssetID, contract.ID).
			Update("rental_contract_id", nil).Error
	})
}

func (r *rentalContractRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RentalContract{}, id).Error
}

func (r *rentalContractRepository) List(ctx context.Context, query *RentalQuery) ([]models.RentalContract, int64, error) {
	var contracts []models.RentalContract
	var total int64

	db := r.db.WithContext(ctx).Model(&models.RentalContract{})

	if query.Status != "" {
		db = db.Where("rental_contracts.status = ?", query.Status)
	}
	if query.ParishID > 0 {
		db = db.Where("rental_contracts.parish_id = ?", query.ParishID)
	}
	if query.AssetID > 0 {
		db = db.Where("rental_contracts.asset_id = ?", query.AssetID)
	}

	if val, ok := query.Filters["end_before"]; ok && val != "" {
		db = db.Where("rental_contracts.end_date <= ?", val)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN assets ON assets.id = rental_contracts.asset_id").
			Where("rental_contracts.code ILIKE ? OR rental_contracts.tenant_name ILIKE ? OR assets.name ILIKE ?",
				search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "rental_contracts." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("rental_contracts.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("rental_contracts.*").
		Preload("Parish").
		Preload("Asset").
		Find(&contracts).Error
	return contracts, total, err
}

// FindActivePastEndDate returns active contracts whose term has elapsed.
// The expiry sweep moves these to expired.
func (r *rentalContractRepository) FindActivePastEndDate(ctx context.Context) ([]models.RentalContract, error) {
	var contracts []models.RentalContract
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < CURRENT_DATE", models.RentalStatusActive).
		Preload("Asset").
		Preload("Parish").
		Order("end_date ASC").
		Find(&contracts).Error
	return contracts, err
}

// AssetRepository defines the interface for fixed asset data access
type AssetRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Asset, int64, error)
	ListAvailable(ctx context.Context, parishID uint) ([]models.Asset, error)
}

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) FindByID(ctx context.Context, id uint) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.WithContext(ctx).Preload("Parish").First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		if isDuplicateKeyError(err, "idx_assets_code") {
			return errors.New("Mã tài sản đã tồn tại")
		}
		return err
	}
	return nil
}

func (r *assetRepository) Update(ctx context.Context, asset *models.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *assetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Asset{}, id).Error
}

func (r *assetRepository) List(ctx context.Context, query *ListQuery) ([]models.Asset, int64, error) {
	var assets []models.Asset
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Asset{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR code ILIKE ? OR location ILIKE ?", search, search, search)
	}
	if query.Filters["type"] != "" {
		db = db.Where("type = ?", query.Filters["type"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["parish_id"] != "" {
		db = db.Where("parish_id = ?", query.Filters["parish_id"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("code ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Parish").Find(&assets).Error
	return assets, total, err
}

// ListAvailable returns active assets with no rental contract claim.
func (r *assetRepository) ListAvailable(ctx context.Context, parishID uint) ([]models.Asset, error) {
	var assets []models.Asset
	db := r.db.WithContext(ctx).
		Where("status = ? AND rental_contract_id IS NULL", models.AssetStatusActive)
	if parishID > 0 {
		db = db.Where("parish_id = ?", parishID)
	}
	err := db.Order("code ASC").Find(&assets).Error
	return assets, err
}
