package billing

import (
	"errors"
	"testing"

	"shaghaf-backend/models"
)

func TestSplitItem_Conservation(t *testing.T) {
	inv, err := BuildInvoice(0, []models.InvoiceItem{
		{Kind: models.ItemKindProduct, Name: "Coffee", Quantity: 2, UnitPrice: 25},
		{Kind: models.ItemKindService, Name: "Meeting screen", Quantity: 1, UnitPrice: 75},
		{Kind: models.ItemKindProduct, Name: "Snacks", Quantity: 5, UnitPrice: 21},
	}, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}
	before := inv.TotalAmount // 230

	split, err := SplitItem(inv, 1)
	if err != nil {
		t.Fatalf("SplitItem() error = %v", err)
	}

	if split.TotalAmount != 75 {
		t.Errorf("split TotalAmount = %.2f, want 75", split.TotalAmount)
	}
	if inv.TotalAmount != 155 {
		t.Errorf("source TotalAmount = %.2f, want 155", inv.TotalAmount)
	}
	if got := inv.TotalAmount + split.TotalAmount; got != before {
		t.Errorf("totals after split sum to %.2f, want %.2f", got, before)
	}

	if len(split.Items) != 1 || !split.Items[0].IsSplit {
		t.Errorf("split invoice items = %+v, want one item with IsSplit", split.Items)
	}
	if split.Items[0].InvoiceID != split.ID {
		t.Errorf("moved item still owned by %s", split.Items[0].InvoiceID)
	}
	if len(inv.Items) != 2 {
		t.Errorf("source items = %d, want 2", len(inv.Items))
	}
	for _, item := range inv.Items {
		if item.Name == "Meeting screen" {
			t.Errorf("split item still present on source")
		}
	}
}

func TestSplitItem_InheritsOwnership(t *testing.T) {
	inv, err := BuildInvoice(0, []models.InvoiceItem{
		{Kind: models.ItemKindProduct, Name: "Coffee", Quantity: 1, UnitPrice: 25},
	}, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}
	branchID := newUUID(t)
	clientID := newUUID(t)
	inv.BranchID = branchID
	inv.ClientID = &clientID

	split, err := SplitItem(inv, 0)
	if err != nil {
		t.Fatalf("SplitItem() error = %v", err)
	}
	if split.BranchID != branchID {
		t.Errorf("split BranchID = %s, want %s", split.BranchID, branchID)
	}
	if split.ClientID == nil || *split.ClientID != clientID {
		t.Errorf("split ClientID = %v, want %s", split.ClientID, clientID)
	}
	if split.TaxAmount != 0 {
		t.Errorf("split TaxAmount = %.2f, want 0", split.TaxAmount)
	}
}

func TestSplitItem_LastItemLeavesZeroTotal(t *testing.T) {
	inv, err := BuildInvoice(0, []models.InvoiceItem{
		{Kind: models.ItemKindProduct, Name: "Coffee", Quantity: 1, UnitPrice: 40},
	}, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}

	split, err := SplitItem(inv, 0)
	if err != nil {
		t.Fatalf("SplitItem() on last item error = %v", err)
	}
	if split.TotalAmount != 40 {
		t.Errorf("split TotalAmount = %.2f, want 40", split.TotalAmount)
	}
	if inv.TotalAmount != 0 || inv.Amount != 0 || len(inv.Items) != 0 {
		t.Errorf("source not emptied: total=%.2f amount=%.2f items=%d", inv.TotalAmount, inv.Amount, len(inv.Items))
	}
}

func TestSplitItem_BadIndex(t *testing.T) {
	inv, err := BuildInvoice(0, []models.InvoiceItem{
		{Kind: models.ItemKindProduct, Name: "Coffee", Quantity: 1, UnitPrice: 40},
	}, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}

	for _, idx := range []int{-1, 1, 5} {
		_, err := SplitItem(inv, idx)
		var perr *PreconditionError
		if !errors.As(err, &perr) {
			t.Errorf("SplitItem(%d) error = %v, want PreconditionError", idx, err)
		}
	}
	if inv.TotalAmount != 40 || len(inv.Items) != 1 {
		t.Errorf("rejected split mutated the invoice")
	}
}

func TestSplitItem_SessionTimeEntryRefused(t *testing.T) {
	sessID := newUUID(t)
	inv, err := BuildInvoice(0, []models.InvoiceItem{
		{Kind: models.ItemKindTimeEntry, SessionID: &sessID, Name: "Shared space usage", Quantity: 2, UnitPrice: 30},
		{Kind: models.ItemKindProduct, SessionID: &sessID, Name: "Coffee", Quantity: 1, UnitPrice: 25},
	}, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}

	_, err = SplitItem(inv, 0)
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Errorf("splitting session time entry error = %v, want PreconditionError", err)
	}

	// The session's product items remain splittable.
	if _, err := SplitItem(inv, 1); err != nil {
		t.Errorf("splitting session product item error = %v", err)
	}
}
