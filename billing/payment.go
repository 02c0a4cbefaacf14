package billing

import (
	"time"

	"shaghaf-backend/models"

	"github.com/google/uuid"
)

// Tender is a single payment-method amount submitted against an invoice.
type Tender struct {
	Method        models.TenderMethod `json:"method" binding:"required,oneof=cash visa wallet"`
	Amount        float64             `json:"amount" binding:"required,gt=0"`
	TransactionID string              `json:"transactionId"`
	Notes         string              `json:"notes"`
}

// RecordPayment appends the tenders to the invoice and re-classifies the
// settlement state from the full accumulated payment set. Rows are
// append-only; progressive partial payments call this repeatedly and end in
// the same state as a single combined call. The caller must serialize calls
// per invoice.
func RecordPayment(inv *models.Invoice, tenders []Tender, action models.RemainingBalanceAction, now time.Time) error {
	if len(tenders) == 0 {
		return validationf("an invoice cannot be paid with no tender")
	}
	for _, t := range tenders {
		if t.Amount <= 0 {
			return validationf("tender amount must be positive")
		}
		switch t.Method {
		case models.TenderCash:
		case models.TenderVisa, models.TenderWallet:
			if t.TransactionID == "" {
				return validationf("%s tender requires a transaction id", t.Method)
			}
		default:
			return validationf("unknown tender method %q", t.Method)
		}
	}
	switch action {
	case models.BalanceActionNone, models.BalanceActionCredit, models.BalanceActionTips:
	default:
		return validationf("unknown remaining balance action %q", action)
	}

	for _, t := range tenders {
		inv.Payments = append(inv.Payments, models.PaymentMethod{
			ID:            uuid.New(),
			InvoiceID:     inv.ID,
			Method:        t.Method,
			Amount:        t.Amount,
			TransactionID: t.TransactionID,
			Notes:         t.Notes,
			ProcessedAt:   now,
		})
	}

	remaining := subMoney(inv.TotalAmount, inv.TotalPaid())
	switch {
	case remaining < 0:
		inv.Status = models.InvoiceStatusPaid
		inv.PaymentStatus = models.PaymentStatusOverpaid
	case remaining == 0:
		inv.Status = models.InvoiceStatusPaid
		inv.PaymentStatus = models.PaymentStatusPaid
	default:
		inv.PaymentStatus = models.PaymentStatusPartial
	}

	if inv.Status == models.InvoiceStatusPaid && inv.PaidDate == nil {
		paid := now
		inv.PaidDate = &paid
	}

	// The disposition only means something while a balance remains.
	if remaining == 0 {
		inv.RemainingBalanceAction = models.BalanceActionNone
	} else {
		inv.RemainingBalanceAction = action
	}
	return nil
}
