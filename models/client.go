package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BranchID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name  string `gorm:"not null"`
	Phone string `gorm:"not null;uniqueIndex:idx_branch_phone,priority:2"`
	Email string
	Notes string

	TotalVisits   int     `gorm:"default:0"`
	TotalSpent    float64 `gorm:"type:decimal(10,2);default:0.0"`
	LoyaltyPoints int     `gorm:"default:0"`
	// WalletBalance holds account credit from overpaid invoices.
	WalletBalance float64 `gorm:"type:decimal(10,2);default:0.0"`
	LastVisit     *time.Time
	IsActive      bool `gorm:"default:true"`

	Invoices []Invoice `gorm:"foreignKey:ClientID"`

	gorm.Model
}
