package models

import (
	"time"
)

// Asset represents a fixed asset owned by the diocese or one of its parishes.
// RentalContractID is the reservation claim: an asset with a non-nil claim is
// excluded from the available list and cannot be attached to another contract.
type Asset struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Code             string     `gorm:"uniqueIndex;not null" json:"code"`
	Name             string     `gorm:"not null" json:"name"`
	Type             string     `gorm:"not null;index" json:"type"`
	ParishID         uint       `gorm:"not null;index" json:"parish_id"`
	Location         *string    `json:"location"`
	Area             *float64   `gorm:"type:decimal(12,2)" json:"area"`
	Value            *float64   `gorm:"type:decimal(18,0)" json:"value"`
	Status           string     `gorm:"default:active;index" json:"status"`
	RentalContractID *uint      `gorm:"index" json:"rental_contract_id"`
	AcquiredAt       *time.Time `gorm:"type:date" json:"acquired_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Parish Parish `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
}

// TableName specifies the table name for Asset
func (Asset) TableName() string {
	return "assets"
}

// Asset type constants
const (
	AssetTypeLand      = "land"
	AssetTypeBuilding  = "building"
	AssetTypeVehicle   = "vehicle"
	AssetTypeEquipment = "equipment"
)

// Asset status constants
const (
	AssetStatusActive   = "active"
	AssetStatusSold     = "sold"
	AssetStatusDisposed = "disposed"
)

// IsRentable returns true if the asset can be attached to a new rental contract
func (a *Asset) IsRentable() bool {
	return a.Status == AssetStatusActive && a.RentalContractID == nil
}

// ValidAssetType reports whether t is a known asset type
func ValidAssetType(t string) bool {
	switch t {
	case AssetTypeLand, AssetTypeBuilding, AssetTypeVehicle, AssetTypeEquipment:
		return true
	}
	return false
}
