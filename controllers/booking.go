package controllers

import (
	"errors"
	"net/http"
	"time"

	"shaghaf-backend/billing"
	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBookingInput struct {
	RoomID    string    `json:"roomId" binding:"required,uuid"`
	ClientID  string    `json:"clientId" binding:"required,uuid"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Notes     string    `json:"notes"`
}

// CreateBooking reserves a private room slot for a client
func CreateBooking(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return
	}

	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.EndTime.After(input.StartTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "End time must be after start time")
		return
	}

	roomUUID, _ := uuid.Parse(input.RoomID)
	clientUUID, _ := uuid.Parse(input.ClientID)

	var room models.Room
	if err := config.DB.Where("branch_id = ? AND id = ? AND is_active = ?", branchUUID, roomUUID, true).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Room not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var client models.Client
	if err := config.DB.Where("branch_id = ? AND id = ?", branchUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Reject double booking of the same room slot.
	var conflicts int64
	if err := config.DB.Model(&models.Booking{}).
		Where("room_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			roomUUID, models.BookingStatusBooked, input.EndTime, input.StartTime).
		Count(&conflicts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if conflicts > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Room is already booked for this time slot")
		return
	}

	booking := models.Booking{
		ID:        uuid.New(),
		BranchID:  branchUUID,
		RoomID:    roomUUID,
		ClientID:  clientUUID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    models.BookingStatusBooked,
		Notes:     input.Notes,
	}

	if err := config.DB.Create(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	booking.Room = room
	booking.Client = client
	c.JSON(http.StatusCreated, booking)
}

// GetBookings retrieves bookings for the branch, optionally filtered by
// status or day
func GetBookings(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return
	}

	query := config.DB.Preload("Room").Preload("Client").
		Where("branch_id = ?", branchUUID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		query = query.Where("start_time >= ? AND start_time < ?", day, day.AddDate(0, 0, 1))
	}

	var bookings []models.Booking
	if err := query.Order("start_time desc").Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking retrieves a single booking
func GetBooking(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Room").Preload("Client").
		Where("branch_id = ? AND id = ?", branchUUID, bookingUUID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking marks a booking as cancelled
func CancelBooking(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := config.DB.Where("branch_id = ? AND id = ?", branchUUID, bookingUUID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if booking.Status != models.BookingStatusBooked {
		utils.RespondWithError(c, http.StatusConflict, "Only a booked booking can be cancelled")
		return
	}
	if booking.InvoiceID != nil {
		utils.RespondWithError(c, http.StatusConflict, "Booking has already been invoiced")
		return
	}

	booking.Status = models.BookingStatusCancelled
	if err := config.DB.Save(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GenerateBookingInvoice settles a booking: the room time charge plus, when a
// session was linked to it, the session's time entry and consumed items all
// land on a single invoice.
func GenerateBookingInvoice(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load branch settings")
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Room").
		Where("branch_id = ? AND id = ?", branchUUID, bookingUUID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if booking.Status == models.BookingStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Cancelled bookings cannot be invoiced")
		return
	}
	if booking.InvoiceID != nil {
		utils.RespondWithError(c, http.StatusConflict, "Booking has already been invoiced")
		return
	}

	items := []models.InvoiceItem{billing.BookingTimeItem(&booking, &booking.Room)}

	// A session linked to this booking settles here instead of producing
	// its own invoice.
	var linked models.Session
	hasLinked := false
	err = config.DB.Preload("Items").
		Where("linked_booking_id = ? AND invoice_id IS NULL", booking.ID).
		First(&linked).Error
	if err == nil {
		hasLinked = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var closedItem *models.InvoiceItem
	if hasLinked {
		if linked.Status == models.SessionStatusActive {
			item, err := billing.CloseSession(&linked, time.Now(), sharedRate(&branch))
			if err != nil {
				respondBillingError(c, err)
				return
			}
			closedItem = &item
		}
		items = append(items, linked.Items...)
	}

	taxRate := branch.TaxRate
	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalPrice
	}
	taxAmount := subtotal * taxRate / 100

	inv, err := billing.BuildInvoice(0, items, taxAmount)
	if err != nil {
		respondBillingError(c, err)
		return
	}
	inv.BranchID = branchUUID
	inv.CreatedByUserID = userUUID
	inv.ClientID = &booking.ClientID
	inv.BookingID = &booking.ID
	due := booking.EndTime.AddDate(0, 0, 7)
	inv.DueDate = &due

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Omit("Items").Create(inv).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	// The room time item, and the session time entry when the session was
	// closed just now, are new rows. The consumed items already exist and
	// only need re-pointing at this invoice.
	for i := range inv.Items {
		isNew := i == 0 || (closedItem != nil && inv.Items[i].ID == closedItem.ID)
		if !isNew {
			continue
		}
		if err := tx.Create(&inv.Items[i]).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save invoice items")
			return
		}
	}

	booking.Status = models.BookingStatusCompleted
	booking.InvoiceID = &inv.ID
	if err := tx.Save(&booking).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
		return
	}

	if hasLinked {
		linked.InvoiceID = &inv.ID
		if err := tx.Omit("Items").Save(&linked).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update linked session")
			return
		}
		if err := tx.Model(&models.InvoiceItem{}).
			Where("session_id = ? AND invoice_id = ?", linked.ID, uuid.Nil).
			Update("invoice_id", inv.ID).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to attach session items")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	invalidateReportCache(branchUUID)
	c.JSON(http.StatusCreated, inv)
}
