package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportController handles all reporting functions
type ReportController struct{}

const reportCacheTTL = 5 * time.Minute

// AnalyticsSummary represents the analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64          `json:"currentMonthRevenue"`
	MonthGrowth           float64          `json:"monthGrowth"`
	CurrentQuarterRevenue float64          `json:"currentQuarterRevenue"`
	QuarterGrowth         float64          `json:"quarterGrowth"`
	CurrentYearRevenue    float64          `json:"currentYearRevenue"`
	YearGrowth            float64          `json:"yearGrowth"`
	TopServices           []ServiceSummary `json:"topServices"`
	TopClients            []ClientSummary  `json:"topClients"`
	QuickStats            QuickStatistics  `json:"quickStats"`
}

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type ClientSummary struct {
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalClients      int     `json:"totalClients"`
	TotalInvoices     int     `json:"totalInvoices"`
	TotalSessions     int     `json:"totalSessions"`
	ActiveSessions    int     `json:"activeSessions"`
	AvgSessionHours   float64 `json:"avgSessionHours"`
	AvgOrderValue     float64 `json:"avgOrderValue"`
	EarlyExitSessions int     `json:"earlyExitSessions"`
}

func reportCacheKey(branchID uuid.UUID) string {
	return "reports:analytics:" + branchID.String()
}

// invalidateReportCache drops the cached analytics for a branch. Called
// after every invoice write so the numbers never lag a sale.
func invalidateReportCache(branchID uuid.UUID) {
	if config.RDB == nil {
		return
	}
	config.RDB.Del(context.Background(), reportCacheKey(branchID))
}

// GetReportAnalytics returns the branch analytics summary, served from the
// cache when a recent copy exists
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
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

	if config.RDB != nil {
		cached, err := config.RDB.Get(c.Request.Context(), reportCacheKey(branchUUID)).Result()
		if err == nil {
			var summary AnalyticsSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				c.JSON(http.StatusOK, summary)
				return
			}
		}
	}

	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	currentMonthRevenue, err := rc.getRevenue(branchUUID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}

	lastMonthRevenue, err := rc.getRevenue(branchUUID,
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(branchUUID,
		rc.getQuarterStart(now),
		rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}

	lastQuarterRevenue, err := rc.getRevenue(branchUUID,
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(branchUUID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}

	lastYearRevenue, err := rc.getRevenue(branchUUID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	monthGrowth := rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue)
	quarterGrowth := rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue)
	yearGrowth := rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue)

	topServices, err := rc.getTopServices(branchUUID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top services")
		return
	}

	topClients, err := rc.getTopClients(branchUUID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top clients")
		return
	}

	quickStats, err := rc.getQuickStatistics(branchUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           monthGrowth,
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         quarterGrowth,
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            yearGrowth,
		TopServices:           topServices,
		TopClients:            topClients,
		QuickStats:            quickStats,
	}

	if config.RDB != nil {
		if payload, err := json.Marshal(summary); err == nil {
			config.RDB.Set(c.Request.Context(), reportCacheKey(branchUUID), payload, reportCacheTTL)
		}
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) getRevenue(branchID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Invoice{}).
		Where("branch_id = ? AND invoice_date BETWEEN ? AND ?", branchID, start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopServices(branchID uuid.UUID, start, end time.Time, limit int) ([]ServiceSummary, error) {
	var services []ServiceSummary

	err := config.DB.Table("invoice_items").
		Select("services.name, SUM(invoice_items.quantity) as count, SUM(invoice_items.total_price) as revenue").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Joins("JOIN services ON services.id = invoice_items.service_id").
		Where("invoices.branch_id = ? AND invoices.invoice_date BETWEEN ? AND ?", branchID, start, end).
		Group("services.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&services).Error

	return services, err
}

func (rc *ReportController) getTopClients(branchID uuid.UUID, start, end time.Time, limit int) ([]ClientSummary, error) {
	var clients []ClientSummary

	err := config.DB.Table("invoices").
		Select("clients.name, COUNT(invoices.id) as visits, SUM(invoices.total_amount) as spent").
		Joins("JOIN clients ON clients.id = invoices.client_id").
		Where("invoices.branch_id = ? AND invoices.invoice_date BETWEEN ? AND ? AND clients.deleted_at IS NULL", branchID, start, end).
		Group("clients.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&clients).Error

	return clients, err
}

func (rc *ReportController) getQuickStatistics(branchID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	var totalClients int64
	if err := config.DB.Model(&models.Client{}).
		Where("branch_id = ? AND deleted_at IS NULL", branchID).
		Count(&totalClients).Error; err != nil {
		return stats, err
	}
	stats.TotalClients = int(totalClients)

	var totalInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("branch_id = ?", branchID).
		Count(&totalInvoices).Error; err != nil {
		return stats, err
	}
	stats.TotalInvoices = int(totalInvoices)

	var totalSessions int64
	if err := config.DB.Model(&models.Session{}).
		Where("branch_id = ?", branchID).
		Count(&totalSessions).Error; err != nil {
		return stats, err
	}
	stats.TotalSessions = int(totalSessions)

	var activeSessions int64
	if err := config.DB.Model(&models.Session{}).
		Where("branch_id = ? AND status = ?", branchID, models.SessionStatusActive).
		Count(&activeSessions).Error; err != nil {
		return stats, err
	}
	stats.ActiveSessions = int(activeSessions)

	var earlyExits int64
	if err := config.DB.Model(&models.Session{}).
		Where("branch_id = ? AND early_exit = ?", branchID, true).
		Count(&earlyExits).Error; err != nil {
		return stats, err
	}
	stats.EarlyExitSessions = int(earlyExits)

	var avgHours float64
	err := config.DB.Raw(`
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (end_time - start_time)) / 3600), 0)
		FROM sessions
		WHERE branch_id = ? AND end_time IS NOT NULL
	`, branchID).Scan(&avgHours).Error
	if err != nil {
		return stats, err
	}
	stats.AvgSessionHours = avgHours

	var totalRevenue float64
	if err := config.DB.Model(&models.Invoice{}).
		Where("branch_id = ?", branchID).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return stats, err
	}

	if stats.TotalInvoices > 0 {
		stats.AvgOrderValue = totalRevenue / float64(stats.TotalInvoices)
	}

	return stats, nil
}
