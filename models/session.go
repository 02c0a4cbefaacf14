package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the state of a shared-space session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Session tracks one shared-space check-in: who is sitting, since when,
// and what they consumed while seated.
type Session struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key"`
	BranchID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ClientID *uuid.UUID `gorm:"type:uuid;index"`

	StartTime        time.Time `gorm:"not null"`
	EndTime          *time.Time
	IndividualsCount int           `gorm:"default:1"`
	Status           SessionStatus `gorm:"type:varchar(20);default:'active'"`

	// EarlyExit waives the time charge; the reasons are kept for reporting.
	EarlyExit        bool        `gorm:"default:false"`
	EarlyExitReasons StringArray `gorm:"type:jsonb;default:'[]'"`
	EarlyExitNotes   string

	// LinkedBookingID merges this session's charges into a private-room
	// booking's invoice instead of producing its own.
	LinkedBookingID *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceID       *uuid.UUID `gorm:"type:uuid;index"`

	Items []InvoiceItem `gorm:"foreignKey:SessionID"`
}

// DurationHours is the elapsed session time in fractional hours. While the
// session is active the duration is measured against now.
func (s *Session) DurationHours(now time.Time) float64 {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return end.Sub(s.StartTime).Hours()
}

// StringArray is stored as a jsonb array column.
type StringArray []string

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan StringArray: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}
