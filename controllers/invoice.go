package controllers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"shaghaf-backend/billing"
	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemInput struct {
	Kind      string  `json:"kind" binding:"required,oneof=product service"`
	ProductID string  `json:"productId" binding:"omitempty,uuid"`
	ServiceID string  `json:"serviceId" binding:"omitempty,uuid"`
	Quantity  float64 `json:"quantity" binding:"omitempty,gt=0"`
}

type CreateInvoiceInput struct {
	ClientID string           `json:"clientId" binding:"omitempty,uuid"`
	Items    []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Notes    string           `json:"notes"`
}

type ApplyDiscountInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
}

type RecordPaymentInput struct {
	Tenders []billing.Tender              `json:"tenders" binding:"required,min=1,dive"`
	Action  models.RemainingBalanceAction `json:"remainingBalanceAction"`
}

type SplitItemInput struct {
	ItemIndex int `json:"itemIndex" binding:"min=0"`
}

// GetInvoices retrieves invoices for the branch, newest first
func GetInvoices(c *gin.Context) {
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

	query := config.DB.Preload("Items").Preload("Payments").
		Where("branch_id = ?", branchUUID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if clientID := c.Query("clientId"); clientID != "" {
		clientUUID, err := uuid.Parse(clientID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		query = query.Where("client_id = ?", clientUUID)
	}

	var invoices []models.Invoice
	if err := query.Order("invoice_date desc").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a single invoice with items and payments
func GetInvoice(c *gin.Context) {
	inv, ok := loadInvoice(c, config.DB)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, inv)
}

// CreateInvoice creates a direct order invoice priced from the catalog.
// Product stock is decremented in the same transaction.
func CreateInvoice(c *gin.Context) {
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

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load branch settings")
		return
	}

	var clientID *uuid.UUID
	if input.ClientID != "" {
		parsed, _ := uuid.Parse(input.ClientID)
		var client models.Client
		if err := config.DB.Where("branch_id = ? AND id = ?", branchUUID, parsed).
			First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Client not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		clientID = &parsed
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var items []models.InvoiceItem
	for _, in := range input.Items {
		quantity := in.Quantity
		if quantity == 0 {
			quantity = 1
		}

		switch in.Kind {
		case "product":
			if in.ProductID == "" {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusBadRequest, "Product ID is required for product items")
				return
			}
			productUUID, _ := uuid.Parse(in.ProductID)

			var product models.Product
			if err := tx.Where("branch_id = ? AND id = ? AND is_active = ?", branchUUID, productUUID, true).
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

			items = append(items, models.InvoiceItem{
				Kind:      models.ItemKindProduct,
				ProductID: &product.ID,
				Name:      product.Name,
				Quantity:  quantity,
				UnitPrice: product.Price,
			})

		case "service":
			if in.ServiceID == "" {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusBadRequest, "Service ID is required for service items")
				return
			}
			serviceUUID, _ := uuid.Parse(in.ServiceID)

			var service models.Service
			if err := tx.Where("branch_id = ? AND id = ? AND is_active = ?", branchUUID, serviceUUID, true).
				First(&service).Error; err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusNotFound, "Service not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				}
				return
			}

			items = append(items, models.InvoiceItem{
				Kind:      models.ItemKindService,
				ServiceID: &service.ID,
				Name:      service.Name,
				Quantity:  quantity,
				UnitPrice: service.Price,
			})
		}
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Quantity * item.UnitPrice
	}
	taxAmount := subtotal * branch.TaxRate / 100

	inv, err := billing.BuildInvoice(0, items, taxAmount)
	if err != nil {
		tx.Rollback()
		respondBillingError(c, err)
		return
	}
	inv.BranchID = branchUUID
	inv.CreatedByUserID = userUUID
	inv.ClientID = clientID
	inv.Notes = input.Notes

	if err := tx.Create(inv).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	invalidateReportCache(branchUUID)
	c.JSON(http.StatusCreated, inv)
}

// ApplyInvoiceDiscount appends a discount line to a pending invoice.
// Owner-gated at the route level.
func ApplyInvoiceDiscount(c *gin.Context) {
	var input ApplyDiscountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	inv, ok := loadInvoiceForUpdate(c, tx)
	if !ok {
		tx.Rollback()
		return
	}

	if err := billing.ApplyDiscount(inv, input.Amount, input.Reason); err != nil {
		tx.Rollback()
		respondBillingError(c, err)
		return
	}

	discount := inv.Items[len(inv.Items)-1]
	if err := tx.Create(&discount).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save discount")
		return
	}
	if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"amount":       inv.Amount,
			"total_amount": inv.TotalAmount,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	invalidateReportCache(inv.BranchID)
	c.JSON(http.StatusOK, inv)
}

// RecordInvoicePayment records one or more tenders against an invoice. The
// row lock serializes concurrent payments on the same invoice.
func RecordInvoicePayment(c *gin.Context) {
	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Action == "" {
		input.Action = models.BalanceActionNone
	}

	now := time.Now()

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	inv, ok := loadInvoiceForUpdate(c, tx)
	if !ok {
		tx.Rollback()
		return
	}

	wasPaid := inv.IsPaid()
	priorPaid := inv.TotalPaid()

	// Wallet tenders draw on the client's stored credit.
	var client *models.Client
	if inv.ClientID != nil {
		var loaded models.Client
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loaded, "id = ?", *inv.ClientID).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load client")
			return
		}
		client = &loaded
	}

	var walletDraw float64
	for _, t := range input.Tenders {
		if t.Method == models.TenderWallet {
			walletDraw += t.Amount
		}
	}
	if walletDraw > 0 {
		if client == nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Wallet payment requires an invoice with a client")
			return
		}
		if walletDraw > client.WalletBalance {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusConflict, "Insufficient wallet balance")
			return
		}
	}

	if err := billing.RecordPayment(inv, input.Tenders, input.Action, now); err != nil {
		tx.Rollback()
		respondBillingError(c, err)
		return
	}

	newPayments := inv.Payments[len(inv.Payments)-len(input.Tenders):]
	for i := range newPayments {
		if err := tx.Create(&newPayments[i]).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save payment")
			return
		}
	}

	if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"status":                   inv.Status,
			"payment_status":           inv.PaymentStatus,
			"paid_date":                inv.PaidDate,
			"remaining_balance_action": inv.RemainingBalanceAction,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	if client != nil {
		paidNow := inv.TotalPaid() - priorPaid
		client.WalletBalance -= walletDraw
		client.TotalSpent += paidNow
		client.LoyaltyPoints += int(paidNow / 10)

		if inv.IsPaid() && !wasPaid {
			client.TotalVisits++
			visit := now
			client.LastVisit = &visit

			// Overpayment chosen as account credit tops up the wallet.
			remaining := inv.RemainingBalance()
			if remaining < 0 && inv.RemainingBalanceAction == models.BalanceActionCredit {
				client.WalletBalance += math.Abs(remaining)
			}
		}

		if err := tx.Omit("Invoices").Save(client).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	invalidateReportCache(inv.BranchID)
	c.JSON(http.StatusOK, inv)
}

// SplitInvoiceItem moves one line item onto a fresh invoice of its own
func SplitInvoiceItem(c *gin.Context) {
	var input SplitItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	inv, ok := loadInvoiceForUpdate(c, tx)
	if !ok {
		tx.Rollback()
		return
	}

	if inv.TotalPaid() > 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Invoices with recorded payments cannot be split")
		return
	}

	split, err := billing.SplitItem(inv, input.ItemIndex)
	if err != nil {
		tx.Rollback()
		respondBillingError(c, err)
		return
	}

	if err := tx.Omit("Items").Create(split).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create split invoice")
		return
	}
	moved := split.Items[0]
	if err := tx.Model(&models.InvoiceItem{}).Where("id = ?", moved.ID).
		Updates(map[string]interface{}{
			"invoice_id": split.ID,
			"is_split":   true,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to move item")
		return
	}
	if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"amount":       inv.Amount,
			"total_amount": inv.TotalAmount,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update source invoice")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	invalidateReportCache(inv.BranchID)
	c.JSON(http.StatusCreated, gin.H{"source": inv, "split": split})
}

// loadInvoice resolves the branch and :id params to an invoice with items
// in a stable order.
func loadInvoice(c *gin.Context, db *gorm.DB) (*models.Invoice, bool) {
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

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return nil, false
	}

	var inv models.Invoice
	if err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_items.id") }).
		Preload("Payments").
		Where("branch_id = ? AND id = ?", branchUUID, invoiceUUID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}

	return &inv, true
}

// loadInvoiceForUpdate is loadInvoice with a row lock on the invoice, used
// by the mutating handlers to serialize per invoice.
func loadInvoiceForUpdate(c *gin.Context, tx *gorm.DB) (*models.Invoice, bool) {
	return loadInvoice(c, tx.Clauses(clause.Locking{Strength: "UPDATE"}))
}
