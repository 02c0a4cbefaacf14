package models

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BranchID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name       string  `gorm:"not null"`
	Capacity   int     `gorm:"default:1"`
	HourlyRate float64 `gorm:"type:decimal(10,2);not null"`
	IsActive   bool    `gorm:"default:true"`

	Bookings []Booking `gorm:"foreignKey:RoomID"`
}

// BookingStatus is the lifecycle state of a private-room booking.
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BranchID uuid.UUID `gorm:"type:uuid;index;not null"`
	RoomID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	StartTime time.Time     `gorm:"not null"`
	EndTime   time.Time     `gorm:"not null"`
	Status    BookingStatus `gorm:"type:varchar(20);default:'booked'"`
	Notes     string

	// InvoiceID is set once the booking has been invoiced.
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	Room   Room   `gorm:"foreignKey:RoomID"`
	Client Client `gorm:"foreignKey:ClientID"`
}

// DurationHours is the booked slot length in fractional hours.
func (b *Booking) DurationHours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}
