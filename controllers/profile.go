package controllers

import (
	"net/http"

	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UpdateBranchInput struct {
	Name             *string  `json:"name"`
	Address          *string  `json:"address"`
	Phone            *string  `json:"phone"`
	SharedHourlyRate *float64 `json:"sharedHourlyRate"`
	TaxRate          *float64 `json:"taxRate"`
}

// GetBranchProfile returns the branch settings
func GetBranchProfile(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                  branch.Name,
		"address":               branch.Address,
		"phone":                 branch.Phone,
		"sharedHourlyRate":      branch.SharedHourlyRate,
		"taxRate":               branch.TaxRate,
		"workingHours":          branch.WorkingHours,
		"overdueReminders":      branch.OverdueReminders,
		"bookingReminders":      branch.BookingReminders,
		"whatsAppNotifications": branch.WhatsAppNotifications,
		"smsNotifications":      branch.SMSNotifications,
	})
}

// UpdateBranchProfile updates the branch identity and rates
func UpdateBranchProfile(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	var input UpdateBranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		return
	}

	if input.Name != nil {
		branch.Name = *input.Name
	}
	if input.Address != nil {
		branch.Address = *input.Address
	}
	if input.Phone != nil {
		branch.Phone = *input.Phone
	}
	if input.SharedHourlyRate != nil {
		if *input.SharedHourlyRate <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Shared hourly rate must be positive")
			return
		}
		branch.SharedHourlyRate = *input.SharedHourlyRate
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 100 {
			utils.RespondWithError(c, http.StatusBadRequest, "Tax rate must be between 0 and 100")
			return
		}
		branch.TaxRate = *input.TaxRate
	}

	if err := config.DB.Save(&branch).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update branch")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Branch updated"})
}

// UpdateWorkingHours replaces the branch working hours map
func UpdateWorkingHours(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	var input struct {
		WorkingHours models.JSONB `json:"workingHours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := config.DB.Model(&models.Branch{}).Where("id = ?", branchID).
		Update("working_hours", input.WorkingHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update working hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Working hours updated"})
}

// UpdateNotificationSettings toggles the reminder channels
func UpdateNotificationSettings(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}

	var input struct {
		OverdueReminders      bool `json:"overdueReminders"`
		BookingReminders      bool `json:"bookingReminders"`
		WhatsAppNotifications bool `json:"whatsAppNotifications"`
		SMSNotifications      bool `json:"smsNotifications"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := config.DB.Model(&models.Branch{}).Where("id = ?", branchID).
		Updates(map[string]interface{}{
			"overdue_reminders":      input.OverdueReminders,
			"booking_reminders":      input.BookingReminders,
			"whats_app_notifications": input.WhatsAppNotifications,
			"sms_notifications":      input.SMSNotifications,
		}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated"})
}

// GetEmployees lists the branch staff
func GetEmployees(c *gin.Context) {
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

	var users []models.User
	if err := config.DB.Where("branch_id = ?", branchUUID).Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	c.JSON(http.StatusOK, users)
}
