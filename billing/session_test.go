package billing

import (
	"errors"
	"testing"
	"time"

	"shaghaf-backend/models"

	"github.com/google/uuid"
)

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func newActiveSession(start time.Time, individuals int) *models.Session {
	clientID := uuid.New()
	return &models.Session{
		ID:               uuid.New(),
		BranchID:         uuid.New(),
		ClientID:         &clientID,
		StartTime:        start,
		IndividualsCount: individuals,
		Status:           models.SessionStatusActive,
	}
}

func TestCloseSession_TimeCharge(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		hours       float64
		individuals int
		rate        float64
		wantTotal   float64
	}{
		{"one person one hour", 1, 1, 30, 30},
		{"three people two hours", 2, 3, 30, 180},
		{"fractional hours", 1.5, 2, 25, 75},
		{"zero duration", 0, 2, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newActiveSession(start, tt.individuals)
			end := start.Add(time.Duration(tt.hours * float64(time.Hour)))

			item, err := CloseSession(sess, end, tt.rate)
			if err != nil {
				t.Fatalf("CloseSession() error = %v", err)
			}
			if item.TotalPrice != tt.wantTotal {
				t.Errorf("TotalPrice = %.2f, want %.2f", item.TotalPrice, tt.wantTotal)
			}
			if item.Kind != models.ItemKindTimeEntry {
				t.Errorf("Kind = %s, want time_entry", item.Kind)
			}
			if item.TotalPrice != lineTotal(item.Quantity, item.UnitPrice) {
				t.Errorf("TotalPrice %.2f not quantity x unit price", item.TotalPrice)
			}
			if sess.Status != models.SessionStatusCompleted || sess.EndTime == nil {
				t.Errorf("session not completed: %+v", sess)
			}
		})
	}
}

func TestCloseSession_Rejections(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	sess := newActiveSession(start, 1)
	if _, err := CloseSession(sess, start.Add(-time.Minute), 30); err == nil {
		t.Errorf("end before start accepted")
	} else {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("end before start error = %v, want ValidationError", err)
		}
	}

	// Completed sessions are terminal.
	sess = newActiveSession(start, 1)
	if _, err := CloseSession(sess, start.Add(time.Hour), 30); err != nil {
		t.Fatalf("CloseSession() error = %v", err)
	}
	_, err := CloseSession(sess, start.Add(2*time.Hour), 30)
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Errorf("double close error = %v, want PreconditionError", err)
	}
}

func TestCloseSessionEarly_ZeroesTimeCharge(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sess := newActiveSession(start, 4)

	// Five elapsed hours, all waived.
	item, err := CloseSessionEarly(sess, start.Add(5*time.Hour), []string{"power outage"}, "AC broke down")
	if err != nil {
		t.Fatalf("CloseSessionEarly() error = %v", err)
	}
	if item.TotalPrice != 0 || item.UnitPrice != 0 {
		t.Errorf("early exit time charge = %.2f, want 0", item.TotalPrice)
	}
	if !sess.EarlyExit {
		t.Errorf("EarlyExit not flagged")
	}
	if len(sess.EarlyExitReasons) != 1 || sess.EarlyExitReasons[0] != "power outage" {
		t.Errorf("EarlyExitReasons = %v", sess.EarlyExitReasons)
	}
	if sess.EarlyExitNotes != "AC broke down" {
		t.Errorf("EarlyExitNotes = %q", sess.EarlyExitNotes)
	}
}

func TestCloseSessionEarly_RequiresReasons(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sess := newActiveSession(start, 1)

	_, err := CloseSessionEarly(sess, start.Add(time.Hour), nil, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("CloseSessionEarly() error = %v, want ValidationError", err)
	}
	if sess.Status != models.SessionStatusActive {
		t.Errorf("rejected early exit completed the session")
	}
}

func TestLinkSessionToBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)

	makeBooking := func(clientID uuid.UUID) *models.Booking {
		return &models.Booking{
			ID:        uuid.New(),
			ClientID:  clientID,
			StartTime: now.Add(-time.Hour),
			EndTime:   now.Add(time.Hour),
			Status:    models.BookingStatusBooked,
		}
	}

	t.Run("links an overlapping same-client booking", func(t *testing.T) {
		sess := newActiveSession(start, 2)
		booking := makeBooking(*sess.ClientID)
		if err := LinkSessionToBooking(sess, booking, now); err != nil {
			t.Fatalf("LinkSessionToBooking() error = %v", err)
		}
		if sess.LinkedBookingID == nil || *sess.LinkedBookingID != booking.ID {
			t.Errorf("LinkedBookingID = %v, want %s", sess.LinkedBookingID, booking.ID)
		}
	})

	t.Run("rejects a second link", func(t *testing.T) {
		sess := newActiveSession(start, 2)
		booking := makeBooking(*sess.ClientID)
		if err := LinkSessionToBooking(sess, booking, now); err != nil {
			t.Fatalf("LinkSessionToBooking() error = %v", err)
		}
		err := LinkSessionToBooking(sess, makeBooking(*sess.ClientID), now)
		var perr *PreconditionError
		if !errors.As(err, &perr) {
			t.Errorf("second link error = %v, want PreconditionError", err)
		}
	})

	t.Run("rejects a different client", func(t *testing.T) {
		sess := newActiveSession(start, 2)
		err := LinkSessionToBooking(sess, makeBooking(uuid.New()), now)
		var perr *PreconditionError
		if !errors.As(err, &perr) {
			t.Errorf("different client error = %v, want PreconditionError", err)
		}
	})

	t.Run("rejects disjoint times", func(t *testing.T) {
		sess := newActiveSession(start, 2)
		booking := makeBooking(*sess.ClientID)
		booking.StartTime = now.Add(24 * time.Hour)
		booking.EndTime = now.Add(26 * time.Hour)
		err := LinkSessionToBooking(sess, booking, now)
		var perr *PreconditionError
		if !errors.As(err, &perr) {
			t.Errorf("disjoint booking error = %v, want PreconditionError", err)
		}
	})

	t.Run("rejects a completed session", func(t *testing.T) {
		sess := newActiveSession(start, 2)
		if _, err := CloseSession(sess, now, 30); err != nil {
			t.Fatalf("CloseSession() error = %v", err)
		}
		err := LinkSessionToBooking(sess, makeBooking(*sess.ClientID), now)
		var perr *PreconditionError
		if !errors.As(err, &perr) {
			t.Errorf("completed session link error = %v, want PreconditionError", err)
		}
	})
}

func TestBookingTimeItem(t *testing.T) {
	booking := &models.Booking{
		StartTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 1, 11, 30, 0, 0, time.UTC),
	}
	room := &models.Room{Name: "Blue Room", HourlyRate: 120}

	item := BookingTimeItem(booking, room)
	if item.Quantity != 2.5 {
		t.Errorf("Quantity = %.3f, want 2.5", item.Quantity)
	}
	if item.TotalPrice != 300 {
		t.Errorf("TotalPrice = %.2f, want 300", item.TotalPrice)
	}
	if item.Name != "Room: Blue Room" {
		t.Errorf("Name = %q", item.Name)
	}
}
