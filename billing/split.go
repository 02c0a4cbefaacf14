package billing

import (
	"time"

	"shaghaf-backend/models"

	"github.com/google/uuid"
)

// SplitItem moves one line item out of the invoice into a brand-new invoice
// of its own. Value is conserved: the two totals afterwards sum to the
// original total. Splitting the last item is valid and leaves the source at
// a zero total; zero-total invoices are kept, voiding them is an
// administrative action outside this package.
func SplitItem(inv *models.Invoice, itemIndex int) (*models.Invoice, error) {
	if itemIndex < 0 || itemIndex >= len(inv.Items) {
		return nil, preconditionf("invoice %s has no item at index %d", inv.InvoiceNumber, itemIndex)
	}
	item := inv.Items[itemIndex]
	if item.Kind == models.ItemKindTimeEntry && item.SessionID != nil {
		return nil, preconditionf("a completed session's time charge cannot be split")
	}

	split := &models.Invoice{
		ID:                     uuid.New(),
		BranchID:               inv.BranchID,
		ClientID:               inv.ClientID,
		CreatedByUserID:        inv.CreatedByUserID,
		InvoiceNumber:          NewInvoiceNumber(),
		InvoiceDate:            time.Now(),
		Amount:                 item.TotalPrice,
		TaxAmount:              0,
		TotalAmount:            item.TotalPrice,
		Status:                 models.InvoiceStatusPending,
		PaymentStatus:          models.PaymentStatusPending,
		RemainingBalanceAction: models.BalanceActionNone,
	}

	item.InvoiceID = split.ID
	item.IsSplit = true
	split.Items = []models.InvoiceItem{item}

	inv.Items = append(inv.Items[:itemIndex], inv.Items[itemIndex+1:]...)
	inv.Amount = subMoney(inv.Amount, item.TotalPrice)
	inv.TotalAmount = subMoney(inv.TotalAmount, item.TotalPrice)
	return split, nil
}
