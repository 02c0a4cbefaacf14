package billing

import (
	"time"

	"shaghaf-backend/models"

	"github.com/google/uuid"
)

// CloseSession ends an active shared-space session at endTime and returns
// the time-entry line: ratePerPerson x occupants x elapsed hours. The item
// is also appended to the session so it travels with it into settlement.
func CloseSession(sess *models.Session, endTime time.Time, ratePerPerson float64) (models.InvoiceItem, error) {
	if err := checkClosable(sess, endTime); err != nil {
		return models.InvoiceItem{}, err
	}
	if ratePerPerson < 0 {
		return models.InvoiceItem{}, validationf("hourly rate cannot be negative")
	}

	hours := roundHours(endTime.Sub(sess.StartTime).Hours())
	item := models.InvoiceItem{
		ID:        uuid.New(),
		SessionID: &sess.ID,
		Kind:      models.ItemKindTimeEntry,
		Name:      "Shared space usage",
		Quantity:  hours,
		UnitPrice: lineTotal(float64(sess.IndividualsCount), ratePerPerson),
	}
	item.TotalPrice = lineTotal(item.Quantity, item.UnitPrice)

	end := endTime
	sess.EndTime = &end
	sess.Status = models.SessionStatusCompleted
	sess.Items = append(sess.Items, item)
	return item, nil
}

// CloseSessionEarly ends an active session with the time charge waived.
// At least one reason must be given; reasons and notes are kept on the
// session record for reporting. Product and service items attached to the
// session still bill normally.
func CloseSessionEarly(sess *models.Session, endTime time.Time, reasons []string, notes string) (models.InvoiceItem, error) {
	if err := checkClosable(sess, endTime); err != nil {
		return models.InvoiceItem{}, err
	}
	if len(reasons) == 0 {
		return models.InvoiceItem{}, validationf("early exit requires at least one reason")
	}

	item := models.InvoiceItem{
		ID:        uuid.New(),
		SessionID: &sess.ID,
		Kind:      models.ItemKindTimeEntry,
		Name:      "Shared space usage (early exit)",
		Quantity:  roundHours(endTime.Sub(sess.StartTime).Hours()),
		UnitPrice: 0,
	}
	item.TotalPrice = 0

	end := endTime
	sess.EndTime = &end
	sess.Status = models.SessionStatusCompleted
	sess.EarlyExit = true
	sess.EarlyExitReasons = reasons
	sess.EarlyExitNotes = notes
	sess.Items = append(sess.Items, item)
	return item, nil
}

func checkClosable(sess *models.Session, endTime time.Time) error {
	if sess.Status != models.SessionStatusActive {
		return preconditionf("session %s is already completed", sess.ID)
	}
	if endTime.Before(sess.StartTime) {
		return validationf("session end time precedes its start time")
	}
	return nil
}

// LinkSessionToBooking merges an open session's future charges into a
// private-room booking's invoice. The session must be active, unlinked, and
// belong to the booking's client, and the two must overlap in time. After
// linking, settling the booking covers the session; no separate shared-space
// invoice is generated.
func LinkSessionToBooking(sess *models.Session, booking *models.Booking, now time.Time) error {
	if sess.Status != models.SessionStatusActive {
		return preconditionf("only an active session can be linked to a booking")
	}
	if sess.LinkedBookingID != nil {
		return preconditionf("session %s is already linked to a booking", sess.ID)
	}
	if booking.Status == models.BookingStatusCancelled {
		return preconditionf("booking %s is cancelled", booking.ID)
	}
	if sess.ClientID == nil || *sess.ClientID != booking.ClientID {
		return preconditionf("session and booking belong to different clients")
	}
	if !sess.StartTime.Before(booking.EndTime) || !booking.StartTime.Before(now) {
		return preconditionf("session and booking do not overlap in time")
	}

	id := booking.ID
	sess.LinkedBookingID = &id
	return nil
}

// BookingTimeItem prices the private-room slot itself: room rate x booked
// hours.
func BookingTimeItem(booking *models.Booking, room *models.Room) models.InvoiceItem {
	item := models.InvoiceItem{
		ID:        uuid.New(),
		Kind:      models.ItemKindTimeEntry,
		Name:      "Room: " + room.Name,
		Quantity:  roundHours(booking.DurationHours()),
		UnitPrice: room.HourlyRate,
	}
	item.TotalPrice = lineTotal(item.Quantity, item.UnitPrice)
	return item
}
