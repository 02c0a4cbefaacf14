package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

type Branch struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	Address string
	Phone   string

	// SharedHourlyRate is the per-person per-hour charge for the shared space.
	SharedHourlyRate float64 `gorm:"type:decimal(10,2);default:30.0"`
	// TaxRate is a percentage applied to invoice subtotals.
	TaxRate float64 `gorm:"type:decimal(5,2);default:0.0"`

	WorkingHours          JSONB `gorm:"type:jsonb;default:'{}'"`
	OverdueReminders      bool  `gorm:"default:true"`
	BookingReminders      bool  `gorm:"default:true"`
	WhatsAppNotifications bool  `gorm:"default:false"`
	SMSNotifications      bool  `gorm:"default:false"`

	Users    []User    `gorm:"foreignKey:BranchID"`
	Clients  []Client  `gorm:"foreignKey:BranchID"`
	Rooms    []Room    `gorm:"foreignKey:BranchID"`
	Products []Product `gorm:"foreignKey:BranchID"`
	Services []Service `gorm:"foreignKey:BranchID"`
	Invoices []Invoice `gorm:"foreignKey:BranchID"`
	Sessions []Session `gorm:"foreignKey:BranchID"`
}

// Custom JSONB type for working hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
