package billing

import (
	"errors"
	"testing"

	"shaghaf-backend/models"
)

func TestBuildInvoice_Totals(t *testing.T) {
	tests := []struct {
		name       string
		baseAmount float64
		items      []models.InvoiceItem
		taxAmount  float64
		wantAmount float64
		wantTotal  float64
	}{
		{"base only", 200, nil, 30, 200, 230},
		{
			"items only", 0,
			[]models.InvoiceItem{
				{Kind: models.ItemKindProduct, Name: "Coffee", Quantity: 2, UnitPrice: 25},
				{Kind: models.ItemKindService, Name: "Printing", Quantity: 10, UnitPrice: 1.5},
			},
			0, 65, 65,
		},
		{
			"base plus items plus tax", 100,
			[]models.InvoiceItem{
				{Kind: models.ItemKindProduct, Name: "Water", Quantity: 3, UnitPrice: 10},
			},
			13, 130, 143,
		},
		{
			"discount item allowed negative", 100,
			[]models.InvoiceItem{
				{Kind: models.ItemKindDiscount, Name: "VIP", Quantity: 1, UnitPrice: -20},
			},
			0, 80, 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := BuildInvoice(tt.baseAmount, tt.items, tt.taxAmount)
			if err != nil {
				t.Fatalf("BuildInvoice() error = %v", err)
			}
			if inv.Amount != tt.wantAmount {
				t.Errorf("Amount = %.2f, want %.2f", inv.Amount, tt.wantAmount)
			}
			if inv.TotalAmount != tt.wantTotal {
				t.Errorf("TotalAmount = %.2f, want %.2f", inv.TotalAmount, tt.wantTotal)
			}
			if inv.TotalAmount != inv.Amount+inv.TaxAmount {
				t.Errorf("TotalAmount %.2f != Amount %.2f + TaxAmount %.2f", inv.TotalAmount, inv.Amount, inv.TaxAmount)
			}
			if inv.Status != models.InvoiceStatusPending || inv.PaymentStatus != models.PaymentStatusPending {
				t.Errorf("new invoice not pending: %s/%s", inv.Status, inv.PaymentStatus)
			}
		})
	}
}

func TestBuildInvoice_RecomputesLineTotals(t *testing.T) {
	items := []models.InvoiceItem{
		// TotalPrice deliberately wrong; it must be recomputed.
		{Kind: models.ItemKindProduct, Name: "Tea", Quantity: 4, UnitPrice: 12.5, TotalPrice: 999},
	}
	inv, err := BuildInvoice(0, items, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}
	if got := inv.Items[0].TotalPrice; got != 50 {
		t.Errorf("item TotalPrice = %.2f, want 50", got)
	}
}

func TestBuildInvoice_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		baseAmount float64
		items      []models.InvoiceItem
		taxAmount  float64
	}{
		{"negative base", -1, nil, 0},
		{"negative tax", 0, nil, -5},
		{"negative quantity", 0, []models.InvoiceItem{{Kind: models.ItemKindProduct, Name: "x", Quantity: -1, UnitPrice: 10}}, 0},
		{"negative price on non-discount", 0, []models.InvoiceItem{{Kind: models.ItemKindProduct, Name: "x", Quantity: 1, UnitPrice: -10}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildInvoice(tt.baseAmount, tt.items, tt.taxAmount)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("BuildInvoice() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	inv, err := BuildInvoice(200, nil, 30)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}

	if err := ApplyDiscount(inv, 50, "VIP"); err != nil {
		t.Fatalf("ApplyDiscount() error = %v", err)
	}
	if inv.TotalAmount != 180 {
		t.Errorf("TotalAmount = %.2f, want 180", inv.TotalAmount)
	}
	if inv.Amount != 150 {
		t.Errorf("Amount = %.2f, want 150", inv.Amount)
	}
	last := inv.Items[len(inv.Items)-1]
	if last.Kind != models.ItemKindDiscount || last.UnitPrice != -50 || last.TotalPrice != -50 {
		t.Errorf("discount item = %+v", last)
	}

	// Same reason again is a double submission.
	err = ApplyDiscount(inv, 50, "VIP")
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Errorf("duplicate reason error = %v, want PreconditionError", err)
	}

	// A different reason still compounds.
	if err := ApplyDiscount(inv, 30, "Loyalty"); err != nil {
		t.Fatalf("second discount error = %v", err)
	}
	if inv.TotalAmount != 150 {
		t.Errorf("TotalAmount after second discount = %.2f, want 150", inv.TotalAmount)
	}
}

func TestApplyDiscount_SettledInvoice(t *testing.T) {
	inv, err := BuildInvoice(100, nil, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}
	inv.Status = models.InvoiceStatusPaid

	err = ApplyDiscount(inv, 20, "promo")
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Errorf("discount on paid invoice error = %v, want PreconditionError", err)
	}
}

func TestApplyDiscount_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
	}{
		{"zero", 0},
		{"negative", -10},
		{"equal to total", 230},
		{"above total", 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := BuildInvoice(200, nil, 30)
			if err != nil {
				t.Fatalf("BuildInvoice() error = %v", err)
			}
			err = ApplyDiscount(inv, tt.amount, "promo")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("ApplyDiscount(%v) error = %v, want ValidationError", tt.amount, err)
			}
			if inv.TotalAmount != 230 || len(inv.Items) != 0 {
				t.Errorf("rejected discount mutated the invoice: %+v", inv)
			}
		})
	}
}
