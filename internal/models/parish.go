package models

import (
	"time"
)

// Parish represents an administrative sub-unit of the diocese
type Parish struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"uniqueIndex;not null" json:"code"`
	Name        string     `gorm:"not null" json:"name"`
	Address     *string    `json:"address"`
	Deanery     *string    `json:"deanery"`
	Patron      *string    `json:"patron"`
	PriestName  *string    `json:"priest_name"`
	Established *time.Time `gorm:"type:date" json:"established"`
	Status      string     `gorm:"default:active;index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Parish
func (Parish) TableName() string {
	return "parishes"
}

// Person represents a congregant registered with a parish
type Person struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"uniqueIndex;not null" json:"code"`
	SaintName   *string    `json:"saint_name"`
	FullName    string     `gorm:"not null" json:"full_name"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	ParishID    uint       `gorm:"not null;index" json:"parish_id"`
	Address     *string    `json:"address"`
	Phone       *string    `json:"phone"`
	Status      string     `gorm:"default:active;index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Parish Parish `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
}

// TableName specifies the table name for Person
func (Person) TableName() string {
	return "persons"
}
