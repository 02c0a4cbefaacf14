package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is one employee work record. At most one open record (no
// check-out yet) may exist per employee at a time.
type Attendance struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	BranchID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`

	CheckIn  time.Time `gorm:"not null"`
	CheckOut *time.Time
	Notes    string

	User User `gorm:"foreignKey:UserID"`

	gorm.Model
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = uuid.New()
	return
}
