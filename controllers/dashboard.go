package controllers

import (
	"fmt"
	"net/http"
	"time"

	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActiveSessionRow struct {
	ID               uuid.UUID `json:"id"`
	ClientName       string    `json:"clientName"`
	StartTime        time.Time `json:"startTime"`
	IndividualsCount int       `json:"individualsCount"`
	Hours            float64   `json:"hours"`
}

type TodayBookingRow struct {
	ID         uuid.UUID `json:"id"`
	RoomName   string    `json:"roomName"`
	ClientName string    `json:"clientName"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`
}

type RecentInvoiceRow struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	TotalAmount   float64   `json:"totalAmount"`
	PaymentStatus string    `json:"paymentStatus"`
	Age           string    `json:"age"`
}

// GetDashboardOverview returns the front-desk landing view: who is sitting
// now, today's bookings, today's takings and what is still owed
func GetDashboardOverview(c *gin.Context) {
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

	now := time.Now()
	startOfDay := utils.BeginningOfDay(now)

	// Today's revenue
	var todayRevenue float64
	config.DB.Model(&models.Invoice{}).
		Where("branch_id = ? AND invoice_date >= ?", branchUUID, startOfDay).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&todayRevenue)

	// Outstanding balance across unpaid invoices
	var outstanding float64
	config.DB.Raw(`
        SELECT COALESCE(SUM(i.total_amount - COALESCE(p.paid, 0)), 0)
        FROM invoices i
        LEFT JOIN (
            SELECT invoice_id, SUM(amount) as paid
            FROM payment_methods
            GROUP BY invoice_id
        ) p ON p.invoice_id = i.id
        WHERE i.branch_id = ? AND i.status = ?
    `, branchUUID, models.InvoiceStatusPending).Scan(&outstanding)

	// Active shared-space sessions
	var activeSessions []ActiveSessionRow
	rows, err := config.DB.Raw(`
        SELECT s.id, COALESCE(c.name, 'Walk-in'), s.start_time, s.individuals_count
        FROM sessions s
        LEFT JOIN clients c ON c.id = s.client_id
        WHERE s.branch_id = ? AND s.status = ?
        ORDER BY s.start_time
    `, branchUUID, models.SessionStatusActive).Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var row ActiveSessionRow
			rows.Scan(&row.ID, &row.ClientName, &row.StartTime, &row.IndividualsCount)
			row.Hours = now.Sub(row.StartTime).Hours()
			activeSessions = append(activeSessions, row)
		}
	}

	// Today's bookings
	var todayBookings []TodayBookingRow
	config.DB.Raw(`
        SELECT b.id, r.name as room_name, c.name as client_name,
               b.start_time, b.end_time, b.status
        FROM bookings b
        JOIN rooms r ON r.id = b.room_id
        JOIN clients c ON c.id = b.client_id
        WHERE b.branch_id = ? AND b.start_time >= ? AND b.start_time < ?
        ORDER BY b.start_time
    `, branchUUID, startOfDay, startOfDay.AddDate(0, 0, 1)).Scan(&todayBookings)

	// Recent invoices
	var recentInvoices []RecentInvoiceRow
	irows, err := config.DB.Raw(`
        SELECT id, invoice_number, total_amount, payment_status, invoice_date
        FROM invoices
        WHERE branch_id = ?
        ORDER BY invoice_date DESC
        LIMIT 5
    `, branchUUID).Rows()
	if err == nil {
		defer irows.Close()
		for irows.Next() {
			var row RecentInvoiceRow
			var invoiceDate time.Time
			irows.Scan(&row.ID, &row.InvoiceNumber, &row.TotalAmount, &row.PaymentStatus, &invoiceDate)
			daysAgo := utils.DaysBetween(invoiceDate, now)
			switch daysAgo {
			case 0:
				row.Age = "Today"
			case 1:
				row.Age = "Yesterday"
			default:
				row.Age = fmt.Sprintf("%d days ago", daysAgo)
			}
			recentInvoices = append(recentInvoices, row)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"todayRevenue":   todayRevenue,
		"outstanding":    outstanding,
		"activeSessions": activeSessions,
		"todayBookings":  todayBookings,
		"recentInvoices": recentInvoices,
	})
}
