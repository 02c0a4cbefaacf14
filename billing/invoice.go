package billing

import (
	"time"

	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewInvoiceNumber returns a human-readable unique invoice number,
// e.g. INV-20250901-X7K2PQ.
func NewInvoiceNumber() string {
	return "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
}

// BuildInvoice prices a set of line items into a pending invoice.
// Each item's TotalPrice is recomputed from Quantity x UnitPrice; the
// resulting totals are deterministic for identical inputs.
func BuildInvoice(baseAmount float64, items []models.InvoiceItem, taxAmount float64) (*models.Invoice, error) {
	if baseAmount < 0 {
		return nil, validationf("base amount cannot be negative")
	}
	if taxAmount < 0 {
		return nil, validationf("tax amount cannot be negative")
	}
	for i := range items {
		if items[i].Quantity < 0 {
			return nil, validationf("item %q: quantity cannot be negative", items[i].Name)
		}
		if items[i].UnitPrice < 0 && items[i].Kind != models.ItemKindDiscount {
			return nil, validationf("item %q: negative unit price is only allowed on discounts", items[i].Name)
		}
	}

	inv := &models.Invoice{
		ID:                     uuid.New(),
		InvoiceNumber:          NewInvoiceNumber(),
		InvoiceDate:            time.Now(),
		Status:                 models.InvoiceStatusPending,
		PaymentStatus:          models.PaymentStatusPending,
		RemainingBalanceAction: models.BalanceActionNone,
	}

	itemsTotal := decimal.NewFromFloat(0)
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].InvoiceID = inv.ID
		items[i].TotalPrice = lineTotal(items[i].Quantity, items[i].UnitPrice)
		itemsTotal = itemsTotal.Add(decimal.NewFromFloat(items[i].TotalPrice))
	}

	inv.Items = items
	inv.Amount = round2(decimal.NewFromFloat(baseAmount).Add(itemsTotal))
	inv.TaxAmount = round2(decimal.NewFromFloat(taxAmount))
	inv.TotalAmount = addMoney(inv.Amount, inv.TaxAmount)
	return inv, nil
}

// ApplyDiscount appends a negative line item worth -amount and shrinks the
// invoice totals accordingly. The role gate for this operation belongs to
// the caller. A discount with a reason already applied is rejected so a
// double-submitted form cannot compound.
func ApplyDiscount(inv *models.Invoice, amount float64, reason string) error {
	if amount <= 0 {
		return validationf("discount must be positive")
	}
	if amount >= inv.TotalAmount {
		return validationf("discount %.2f must be below the invoice total %.2f", amount, inv.TotalAmount)
	}
	if inv.IsPaid() {
		return preconditionf("invoice %s is already settled", inv.InvoiceNumber)
	}
	for _, item := range inv.Items {
		if item.Kind == models.ItemKindDiscount && item.Name == reason {
			return preconditionf("discount %q already applied", reason)
		}
	}

	inv.Items = append(inv.Items, models.InvoiceItem{
		ID:         uuid.New(),
		InvoiceID:  inv.ID,
		Kind:       models.ItemKindDiscount,
		Name:       reason,
		Quantity:   1,
		UnitPrice:  -amount,
		TotalPrice: lineTotal(1, -amount),
	})
	inv.Amount = subMoney(inv.Amount, amount)
	inv.TotalAmount = subMoney(inv.TotalAmount, amount)
	return nil
}
