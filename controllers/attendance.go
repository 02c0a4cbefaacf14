package controllers

import (
	"errors"
	"net/http"
	"time"

	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceNotesInput struct {
	Notes string `json:"notes"`
}

// AttendanceCheckIn opens a work record for the authenticated employee
func AttendanceCheckIn(c *gin.Context) {
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

	var input AttendanceNotesInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var open int64
	if err := config.DB.Model(&models.Attendance{}).
		Where("user_id = ? AND check_out IS NULL", userUUID).
		Count(&open).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if open > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Already checked in")
		return
	}

	record := models.Attendance{
		BranchID: branchUUID,
		UserID:   userUUID,
		CheckIn:  time.Now(),
		Notes:    input.Notes,
	}

	if err := config.DB.Create(&record).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check in")
		return
	}

	c.JSON(http.StatusCreated, record)
}

// AttendanceCheckOut closes the employee's open work record
func AttendanceCheckOut(c *gin.Context) {
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

	var record models.Attendance
	if err := config.DB.Where("user_id = ? AND check_out IS NULL", userUUID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusConflict, "No open attendance record")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	now := time.Now()
	record.CheckOut = &now

	if err := config.DB.Save(&record).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check out")
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetAttendance lists work records for the branch within an optional date
// range
func GetAttendance(c *gin.Context) {
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

	query := config.DB.Preload("User").Where("branch_id = ?", branchUUID)

	if from := c.Query("from"); from != "" {
		day, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("check_in >= ?", day)
	}
	if to := c.Query("to"); to != "" {
		day, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("check_in < ?", day.AddDate(0, 0, 1))
	}
	if userID := c.Query("userId"); userID != "" {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
			return
		}
		query = query.Where("user_id = ?", userUUID)
	}

	var records []models.Attendance
	if err := query.Order("check_in desc").Find(&records).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve attendance")
		return
	}

	c.JSON(http.StatusOK, records)
}
