package models

import (
	"github.com/google/uuid"
)

type Service struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BranchID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string `gorm:"not null"`
	Description string
	Price       float64 `gorm:"type:decimal(10,2);not null"`
	Category    string  `gorm:"default:'General'"`
	IsActive    bool    `gorm:"default:true"`
}
