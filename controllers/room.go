package controllers

import (
	"errors"
	"net/http"

	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateRoomInput struct {
	Name       string  `json:"name" binding:"required"`
	Capacity   int     `json:"capacity" binding:"min=1"`
	HourlyRate float64 `json:"hourlyRate" binding:"required,gt=0"`
}

type UpdateRoomInput struct {
	Name       *string  `json:"name"`
	Capacity   *int     `json:"capacity"`
	HourlyRate *float64 `json:"hourlyRate"`
	IsActive   *bool    `json:"isActive"`
}

// CreateRoom creates a new private room for the branch
func CreateRoom(c *gin.Context) {
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

	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	room := models.Room{
		ID:         uuid.New(),
		BranchID:   branchUUID,
		Name:       input.Name,
		Capacity:   input.Capacity,
		HourlyRate: input.HourlyRate,
		IsActive:   true,
	}
	if room.Capacity == 0 {
		room.Capacity = 1
	}

	if err := config.DB.Create(&room).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create room")
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GetRooms retrieves all rooms for the branch
func GetRooms(c *gin.Context) {
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

	var rooms []models.Room
	if err := config.DB.Where("branch_id = ?", branchUUID).Find(&rooms).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve rooms")
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// UpdateRoom updates an existing room
func UpdateRoom(c *gin.Context) {
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

	roomUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid room ID format")
		return
	}

	var input UpdateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var room models.Room
	if err := config.DB.Where("branch_id = ? AND id = ?", branchUUID, roomUUID).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Room not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		room.Name = *input.Name
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			utils.RespondWithError(c, http.StatusBadRequest, "Capacity must be at least 1")
			return
		}
		room.Capacity = *input.Capacity
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Hourly rate must be positive")
			return
		}
		room.HourlyRate = *input.HourlyRate
	}
	if input.IsActive != nil {
		room.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&room).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update room")
		return
	}

	c.JSON(http.StatusOK, room)
}

// DeleteRoom removes a room
func DeleteRoom(c *gin.Context) {
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

	roomUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid room ID format")
		return
	}

	result := config.DB.Where("branch_id = ? AND id = ?", branchUUID, roomUUID).
		Delete(&models.Room{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete room")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Room not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
