package billing

import (
	"errors"
	"testing"
	"time"

	"shaghaf-backend/models"
)

func newTestInvoice(t *testing.T, total float64) *models.Invoice {
	t.Helper()
	inv, err := BuildInvoice(total, nil, 0)
	if err != nil {
		t.Fatalf("BuildInvoice() error = %v", err)
	}
	return inv
}

func TestRecordPayment_StatusTable(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name          string
		tenders       []Tender
		wantStatus    models.InvoiceStatus
		wantPayment   models.PaymentStatus
		wantRemaining float64
	}{
		{
			"exact", []Tender{{Method: models.TenderCash, Amount: 100}, {Method: models.TenderVisa, Amount: 130, TransactionID: "tx-1"}},
			models.InvoiceStatusPaid, models.PaymentStatusPaid, 0,
		},
		{
			"partial", []Tender{{Method: models.TenderCash, Amount: 100}},
			models.InvoiceStatusPending, models.PaymentStatusPartial, 130,
		},
		{
			"overpaid", []Tender{{Method: models.TenderCash, Amount: 250}},
			models.InvoiceStatusPaid, models.PaymentStatusOverpaid, -20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice(t, 230)
			if err := RecordPayment(inv, tt.tenders, models.BalanceActionNone, now); err != nil {
				t.Fatalf("RecordPayment() error = %v", err)
			}
			if inv.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", inv.Status, tt.wantStatus)
			}
			if inv.PaymentStatus != tt.wantPayment {
				t.Errorf("PaymentStatus = %s, want %s", inv.PaymentStatus, tt.wantPayment)
			}
			if got := inv.RemainingBalance(); got != tt.wantRemaining {
				t.Errorf("RemainingBalance() = %.2f, want %.2f", got, tt.wantRemaining)
			}
		})
	}
}

func TestRecordPayment_ProgressiveEqualsCombined(t *testing.T) {
	now := time.Now()

	progressive := newTestInvoice(t, 100)
	if err := RecordPayment(progressive, []Tender{{Method: models.TenderCash, Amount: 50}}, models.BalanceActionNone, now); err != nil {
		t.Fatalf("first RecordPayment() error = %v", err)
	}
	if progressive.PaymentStatus != models.PaymentStatusPartial {
		t.Fatalf("after first payment PaymentStatus = %s, want partial", progressive.PaymentStatus)
	}
	if err := RecordPayment(progressive, []Tender{{Method: models.TenderVisa, Amount: 50, TransactionID: "tx-2"}}, models.BalanceActionNone, now); err != nil {
		t.Fatalf("second RecordPayment() error = %v", err)
	}

	combined := newTestInvoice(t, 100)
	if err := RecordPayment(combined, []Tender{
		{Method: models.TenderCash, Amount: 50},
		{Method: models.TenderVisa, Amount: 50, TransactionID: "tx-2"},
	}, models.BalanceActionNone, now); err != nil {
		t.Fatalf("combined RecordPayment() error = %v", err)
	}

	for _, inv := range []*models.Invoice{progressive, combined} {
		if inv.Status != models.InvoiceStatusPaid || inv.PaymentStatus != models.PaymentStatusPaid {
			t.Errorf("end state = %s/%s, want paid/paid", inv.Status, inv.PaymentStatus)
		}
		if inv.RemainingBalance() != 0 {
			t.Errorf("RemainingBalance() = %.2f, want 0", inv.RemainingBalance())
		}
		if len(inv.Payments) != 2 {
			t.Errorf("payment rows = %d, want 2", len(inv.Payments))
		}
	}
}

func TestRecordPayment_Rejections(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		tenders []Tender
		action  models.RemainingBalanceAction
	}{
		{"no tenders", nil, models.BalanceActionNone},
		{"zero amount", []Tender{{Method: models.TenderCash, Amount: 0}}, models.BalanceActionNone},
		{"negative amount", []Tender{{Method: models.TenderCash, Amount: -10}}, models.BalanceActionNone},
		{"visa without transaction id", []Tender{{Method: models.TenderVisa, Amount: 50}}, models.BalanceActionNone},
		{"unknown method", []Tender{{Method: "cheque", Amount: 50}}, models.BalanceActionNone},
		{"unknown action", []Tender{{Method: models.TenderCash, Amount: 50}}, "refund"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice(t, 100)
			err := RecordPayment(inv, tt.tenders, tt.action, now)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("RecordPayment() error = %v, want ValidationError", err)
			}
			if len(inv.Payments) != 0 || inv.PaymentStatus != models.PaymentStatusPending {
				t.Errorf("rejected payment mutated the invoice: %+v", inv)
			}
		})
	}
}

func TestRecordPayment_BalanceActionDisposition(t *testing.T) {
	now := time.Now()

	// A non-zero remaining balance keeps the chosen action.
	inv := newTestInvoice(t, 230)
	if err := RecordPayment(inv, []Tender{{Method: models.TenderCash, Amount: 250}}, models.BalanceActionCredit, now); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	if inv.RemainingBalanceAction != models.BalanceActionCredit {
		t.Errorf("RemainingBalanceAction = %s, want account_credit", inv.RemainingBalanceAction)
	}

	// An exactly settled invoice forces the action back to none.
	inv = newTestInvoice(t, 230)
	if err := RecordPayment(inv, []Tender{{Method: models.TenderCash, Amount: 230}}, models.BalanceActionTips, now); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	if inv.RemainingBalanceAction != models.BalanceActionNone {
		t.Errorf("RemainingBalanceAction = %s, want none", inv.RemainingBalanceAction)
	}
}

func TestRecordPayment_PaidDateSetOnce(t *testing.T) {
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	inv := newTestInvoice(t, 100)
	if err := RecordPayment(inv, []Tender{{Method: models.TenderCash, Amount: 100}}, models.BalanceActionNone, first); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	if inv.PaidDate == nil || !inv.PaidDate.Equal(first) {
		t.Fatalf("PaidDate = %v, want %v", inv.PaidDate, first)
	}

	// A later overpayment must not move the paid date.
	if err := RecordPayment(inv, []Tender{{Method: models.TenderCash, Amount: 10}}, models.BalanceActionTips, second); err != nil {
		t.Fatalf("second RecordPayment() error = %v", err)
	}
	if !inv.PaidDate.Equal(first) {
		t.Errorf("PaidDate moved to %v", inv.PaidDate)
	}
	if inv.PaymentStatus != models.PaymentStatusOverpaid {
		t.Errorf("PaymentStatus = %s, want overpaid", inv.PaymentStatus)
	}
}
