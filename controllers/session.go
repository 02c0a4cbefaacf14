package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"shaghaf-backend/billing"
	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckInInput struct {
	ClientID         string `json:"clientId" binding:"omitempty,uuid"`
	IndividualsCount int    `json:"individualsCount" binding:"omitempty,min=1"`
}

type UpdateIndividualsInput struct {
	Count int `json:"count" binding:"required,min=1"`
}

type AddSessionItemInput struct {
	Kind           string  `json:"kind" binding:"required,oneof=product service"`
	ProductID      string  `json:"productId" binding:"omitempty,uuid"`
	ServiceID      string  `json:"serviceId" binding:"omitempty,uuid"`
	Quantity       float64 `json:"quantity" binding:"omitempty,gt=0"`
	IndividualName string  `json:"individualName"`
}

type EarlyExitInput struct {
	Reasons []string `json:"reasons" binding:"required,min=1"`
	Notes   string   `json:"notes"`
}

type LinkBookingInput struct {
	BookingID string `json:"bookingId" binding:"required,uuid"`
}

// sharedRate is the per-person hourly charge for the shared space. Branch
// settings win; the env var covers branches created before the setting
// existed.
func sharedRate(branch *models.Branch) float64 {
	if branch.SharedHourlyRate > 0 {
		return branch.SharedHourlyRate
	}
	if v := os.Getenv("SHARED_HOURLY_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			return rate
		}
	}
	return 30.0
}

// CheckIn opens a shared-space session
func CheckIn(c *gin.Context) {
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

	var input CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session := models.Session{
		ID:               uuid.New(),
		BranchID:         branchUUID,
		StartTime:        time.Now(),
		IndividualsCount: 1,
		Status:           models.SessionStatusActive,
		EarlyExitReasons: models.StringArray{},
	}
	if input.IndividualsCount > 0 {
		session.IndividualsCount = input.IndividualsCount
	}

	if input.ClientID != "" {
		clientUUID, _ := uuid.Parse(input.ClientID)
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
		session.ClientID = &clientUUID
	}

	if err := config.DB.Create(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check in")
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSessions retrieves sessions for the branch, newest first
func GetSessions(c *gin.Context) {
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

	query := config.DB.Preload("Items").Where("branch_id = ?", branchUUID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var sessions []models.Session
	if err := query.Order("start_time desc").Find(&sessions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sessions")
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession retrieves a single session with its items
func GetSession(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateIndividuals changes how many people are sitting on an active session
func UpdateIndividuals(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var input UpdateIndividualsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if session.Status != models.SessionStatusActive {
		utils.RespondWithError(c, http.StatusConflict, "Session is already completed")
		return
	}

	session.IndividualsCount = input.Count
	if err := config.DB.Omit("Items").Save(session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// AddSessionItem attaches a consumed product or service to an active session.
// Product stock is decremented immediately so the shelf count stays honest
// while the session runs.
func AddSessionItem(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var input AddSessionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if session.Status != models.SessionStatusActive {
		utils.RespondWithError(c, http.StatusConflict, "Session is already completed")
		return
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := models.InvoiceItem{
		ID:             uuid.New(),
		SessionID:      &session.ID,
		Quantity:       quantity,
		IndividualName: input.IndividualName,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	switch input.Kind {
	case "product":
		if input.ProductID == "" {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Product ID is required for product items")
			return
		}
		productUUID, _ := uuid.Parse(input.ProductID)

		var product models.Product
		if err := tx.Where("branch_id = ? AND id = ? AND is_active = ?", session.BranchID, productUUID, true).
			First(&product).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Product not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}

		units := int(quantity)
		if float64(units) != quantity || units < 1 {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Product quantity must be a whole number")
			return
		}

		// Guarded decrement; RowsAffected is zero when stock is short.
		result := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, units).
			Update("stock", gorm.Expr("stock - ?", units))
		if result.Error != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update stock")
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusConflict, "Insufficient stock for "+product.Name)
			return
		}

		item.Kind = models.ItemKindProduct
		item.ProductID = &product.ID
		item.Name = product.Name
		item.UnitPrice = product.Price

	case "service":
		if input.ServiceID == "" {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Service ID is required for service items")
			return
		}
		serviceUUID, _ := uuid.Parse(input.ServiceID)

		var service models.Service
		if err := tx.Where("branch_id = ? AND id = ? AND is_active = ?", session.BranchID, serviceUUID, true).
			First(&service).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Service not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}

		item.Kind = models.ItemKindService
		item.ServiceID = &service.ID
		item.Name = service.Name
		item.UnitPrice = service.Price
	}

	item.TotalPrice = item.Quantity * item.UnitPrice

	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add item")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Checkout closes an active session. Unlinked sessions get an invoice for
// the time charge plus everything consumed; a session linked to a booking is
// closed only, its charges settle when the booking is invoiced.
func Checkout(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", session.BranchID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load branch settings")
		return
	}

	timeItem, err := billing.CloseSession(session, time.Now(), sharedRate(&branch))
	if err != nil {
		respondBillingError(c, err)
		return
	}

	settleSession(c, session, &branch, timeItem)
}

// EarlyExit closes an active session with the time charge waived. Consumed
// items still bill.
func EarlyExit(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var input EarlyExitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", session.BranchID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load branch settings")
		return
	}

	timeItem, err := billing.CloseSessionEarly(session, time.Now(), input.Reasons, input.Notes)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	settleSession(c, session, &branch, timeItem)
}

// settleSession persists a just-closed session and, unless it is linked to a
// booking, creates its invoice in the same transaction.
func settleSession(c *gin.Context, session *models.Session, branch *models.Branch, timeItem models.InvoiceItem) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// The consumed items are already rows; the time entry appended at close
	// is the only new one.
	if err := tx.Create(&timeItem).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save session time entry")
		return
	}

	var inv *models.Invoice
	if session.LinkedBookingID == nil {
		var subtotal float64
		for _, item := range session.Items {
			subtotal += item.TotalPrice
		}
		taxAmount := subtotal * branch.TaxRate / 100

		inv, err = billing.BuildInvoice(0, session.Items, taxAmount)
		if err != nil {
			tx.Rollback()
			respondBillingError(c, err)
			return
		}
		inv.BranchID = session.BranchID
		inv.CreatedByUserID = userUUID
		inv.ClientID = session.ClientID
		inv.SessionID = &session.ID

		if err := tx.Omit("Items").Create(inv).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
			return
		}
		if err := tx.Model(&models.InvoiceItem{}).
			Where("session_id = ?", session.ID).
			Update("invoice_id", inv.ID).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to attach session items")
			return
		}
		session.InvoiceID = &inv.ID
	}

	if err := tx.Omit("Items").Save(session).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update session")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	if inv != nil {
		invalidateReportCache(session.BranchID)
		c.JSON(http.StatusOK, gin.H{"session": session, "invoice": inv})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// LinkBooking ties an active session to a private-room booking so both
// settle on one invoice
func LinkBooking(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var input LinkBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	bookingUUID, _ := uuid.Parse(input.BookingID)

	var booking models.Booking
	if err := config.DB.Where("branch_id = ? AND id = ?", session.BranchID, bookingUUID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := billing.LinkSessionToBooking(session, &booking, time.Now()); err != nil {
		respondBillingError(c, err)
		return
	}

	if err := config.DB.Omit("Items").Save(session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to link session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// loadSession resolves the branch and :id params to a session with its
// items, writing the error response itself when it fails.
func loadSession(c *gin.Context) (*models.Session, bool) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return nil, false
	}

	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return nil, false
	}

	sessionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return nil, false
	}

	var session models.Session
	if err := config.DB.Preload("Items").
		Where("branch_id = ? AND id = ?", branchUUID, sessionUUID).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Session not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}

	return &session, true
}
