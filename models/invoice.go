package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// PaymentStatus classifies how much of the total has been tendered.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverpaid PaymentStatus = "overpaid"
)

// RemainingBalanceAction records what the cashier chose to do with a
// non-zero remaining balance. It is stored only; no ledger posting happens.
type RemainingBalanceAction string

const (
	BalanceActionNone   RemainingBalanceAction = "none"
	BalanceActionCredit RemainingBalanceAction = "account_credit"
	BalanceActionTips   RemainingBalanceAction = "tips"
)

// ItemKind distinguishes what an invoice line charges for.
type ItemKind string

const (
	ItemKindTimeEntry ItemKind = "time_entry"
	ItemKindProduct   ItemKind = "product"
	ItemKindService   ItemKind = "service"
	ItemKindDiscount  ItemKind = "discount"
)

// TenderMethod is a payment instrument accepted at the desk.
type TenderMethod string

const (
	TenderCash   TenderMethod = "cash"
	TenderVisa   TenderMethod = "visa"
	TenderWallet TenderMethod = "wallet"
)

type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	BranchID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	InvoiceNumber string     `gorm:"uniqueIndex;not null"`
	ClientID      *uuid.UUID `gorm:"type:uuid;index"`
	BookingID     *uuid.UUID `gorm:"type:uuid;index"`
	SessionID     *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceDate   time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	DueDate       *time.Time
	PaidDate      *time.Time

	Amount      float64 `gorm:"type:decimal(10,2);not null"`
	TaxAmount   float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount float64 `gorm:"type:decimal(10,2);not null"`

	Status                 InvoiceStatus          `gorm:"type:varchar(20);default:'pending'"`
	PaymentStatus          PaymentStatus          `gorm:"type:varchar(20);default:'pending'"`
	RemainingBalanceAction RemainingBalanceAction `gorm:"type:varchar(20);default:'none'"`
	Notes                  string

	Items    []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
	Payments []PaymentMethod `gorm:"foreignKey:InvoiceID"`
}

// TotalPaid sums every tender recorded against the invoice.
func (i *Invoice) TotalPaid() float64 {
	var total float64
	for _, p := range i.Payments {
		total += p.Amount
	}
	return total
}

// RemainingBalance is TotalAmount minus TotalPaid. Negative means overpaid.
func (i *Invoice) RemainingBalance() float64 {
	return i.TotalAmount - i.TotalPaid()
}

func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

type InvoiceItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID  `gorm:"type:uuid;index"`
	SessionID *uuid.UUID `gorm:"type:uuid;index"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	ServiceID *uuid.UUID `gorm:"type:uuid;index"`

	Kind ItemKind `gorm:"type:varchar(20);not null"`
	Name string   `gorm:"not null"`
	// IndividualName records who in a shared session incurred the charge.
	IndividualName string
	Quantity       float64 `gorm:"type:decimal(10,3);default:1"`
	UnitPrice      float64 `gorm:"type:decimal(10,2);not null"`
	TotalPrice     float64 `gorm:"type:decimal(10,2);not null"`
	IsSplit        bool    `gorm:"default:false"`
}

type PaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Method        TenderMethod `gorm:"type:varchar(20);not null"`
	Amount        float64      `gorm:"type:decimal(10,2);not null"`
	TransactionID string
	Notes         string
	ProcessedAt   time.Time
}
