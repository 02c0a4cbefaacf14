// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"shaghaf-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	if _, err := c.AddFunc("0 9 * * *", s.SendDailyReminders); err != nil {
		log.Printf("Failed to schedule daily reminders: %v", err)
		return
	}

	c.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var branches []models.Branch
	if err := s.db.Find(&branches).Error; err != nil {
		log.Printf("Failed to fetch branches: %v", err)
		return
	}

	for _, branch := range branches {
		s.ProcessBranchReminders(&branch)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) ProcessBranchReminders(branch *models.Branch) {
	if branch.OverdueReminders {
		if err := s.sendOverdueInvoiceReminders(branch); err != nil {
			log.Printf("Branch %s: overdue invoice reminders failed: %v", branch.ID, err)
		}
	}
	if branch.BookingReminders {
		if err := s.sendBookingReminders(branch); err != nil {
			log.Printf("Branch %s: booking reminders failed: %v", branch.ID, err)
		}
	}
}

// sendOverdueInvoiceReminders nudges clients whose pending invoices have
// passed their due date.
func (s *ReminderService) sendOverdueInvoiceReminders(branch *models.Branch) error {
	var invoices []models.Invoice
	err := s.db.
		Where("branch_id = ? AND status = ? AND due_date IS NOT NULL AND due_date < ? AND client_id IS NOT NULL",
			branch.ID, models.InvoiceStatusPending, time.Now()).
		Find(&invoices).Error
	if err != nil {
		return err
	}

	for _, inv := range invoices {
		var client models.Client
		if err := s.db.First(&client, "id = ?", *inv.ClientID).Error; err != nil {
			log.Printf("Invoice %s: failed to load client: %v", inv.InvoiceNumber, err)
			continue
		}

		// One reminder per invoice per day.
		var sentToday int64
		s.db.Model(&models.NotificationLog{}).
			Where("invoice_id = ? AND type = ? AND sent_at >= ?",
				inv.ID, "invoice_due", time.Now().Truncate(24*time.Hour)).
			Count(&sentToday)
		if sentToday > 0 {
			continue
		}

		message := fmt.Sprintf("Dear %s, invoice %s for %.2f at %s is overdue. Please settle at your earliest convenience.",
			client.Name, inv.InvoiceNumber, inv.TotalAmount, branch.Name)

		entry := models.NotificationLog{
			BranchID:  branch.ID,
			ClientID:  &client.ID,
			InvoiceID: &inv.ID,
			Type:      "invoice_due",
			Message:   message,
		}
		s.deliver(branch, client.Phone, &entry)
	}
	return nil
}

// sendBookingReminders notifies clients about today's room bookings.
func (s *ReminderService) sendBookingReminders(branch *models.Branch) error {
	startOfDay := time.Now().Truncate(24 * time.Hour)

	var bookings []models.Booking
	err := s.db.Preload("Client").Preload("Room").
		Where("branch_id = ? AND status = ? AND start_time >= ? AND start_time < ?",
			branch.ID, models.BookingStatusBooked, startOfDay, startOfDay.AddDate(0, 0, 1)).
		Find(&bookings).Error
	if err != nil {
		return err
	}

	for _, booking := range bookings {
		var sentToday int64
		s.db.Model(&models.NotificationLog{}).
			Where("booking_id = ? AND type = ? AND sent_at >= ?",
				booking.ID, "booking", startOfDay).
			Count(&sentToday)
		if sentToday > 0 {
			continue
		}

		message := fmt.Sprintf("Dear %s, reminder: your booking for %s at %s starts at %s today.",
			booking.Client.Name, booking.Room.Name, branch.Name,
			booking.StartTime.Format("15:04"))

		entry := models.NotificationLog{
			BranchID:  branch.ID,
			ClientID:  &booking.ClientID,
			BookingID: &booking.ID,
			Type:      "booking",
			Message:   message,
		}
		s.deliver(branch, booking.Client.Phone, &entry)
	}
	return nil
}

// deliver sends one message via Twilio and records the outcome.
func (s *ReminderService) deliver(branch *models.Branch, phone string, entry *models.NotificationLog) {
	channel := "sms"
	to := phone

	// WhatsApp wants E.164 numbers with a leading '+'.
	if branch.WhatsAppNotifications && strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	} else if !branch.SMSNotifications {
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(entry.Message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send message to %s: %v", phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", phone)
	}

	entry.Status = status
	entry.ErrorMessage = errorMsg
	entry.Channel = channel
	entry.SentAt = time.Now()

	if err := s.db.Create(entry).Error; err != nil {
		var id uuid.UUID
		if entry.ClientID != nil {
			id = *entry.ClientID
		}
		log.Printf("Failed to log reminder for client %s: %v", id, err)
	}
}
