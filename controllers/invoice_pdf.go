package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoicePDF renders the invoice as a PDF receipt
func DownloadInvoicePDF(c *gin.Context) {
	inv, ok := loadInvoice(c, config.DB)
	if !ok {
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", inv.BranchID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load branch settings")
		return
	}

	var client *models.Client
	if inv.ClientID != nil {
		var loaded models.Client
		if err := config.DB.First(&loaded, "id = ?", *inv.ClientID).Error; err == nil {
			client = &loaded
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)

	// Header
	pdf.Cell(40, 10, branch.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	if branch.Address != "" {
		pdf.Cell(40, 6, branch.Address)
		pdf.Ln(6)
	}
	if branch.Phone != "" {
		pdf.Cell(40, 6, branch.Phone)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(40, 8, fmt.Sprintf("Invoice %s", inv.InvoiceNumber))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 6, fmt.Sprintf("Date: %s", inv.InvoiceDate.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	if client != nil {
		pdf.Cell(40, 6, fmt.Sprintf("Client: %s (%s)", client.Name, client.Phone))
		pdf.Ln(6)
	}
	if inv.DueDate != nil {
		pdf.Cell(40, 6, fmt.Sprintf("Due: %s", inv.DueDate.Format("2006-01-02")))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Table headers
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(80, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 9)
	for _, item := range inv.Items {
		name := item.Name
		if item.IndividualName != "" {
			name = fmt.Sprintf("%s (%s)", name, item.IndividualName)
		}
		pdf.CellFormat(80, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.TotalPrice), "1", 1, "R", false, 0, "")
	}

	// Totals
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(140, 8, "Subtotal:")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", inv.Amount), "", 1, "R", false, 0, "")

	if inv.TaxAmount > 0 {
		pdf.Cell(140, 8, fmt.Sprintf("Tax (%.1f%%):", branch.TaxRate))
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", inv.TaxAmount), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(140, 10, "Total:")
	pdf.CellFormat(35, 10, fmt.Sprintf("%.2f", inv.TotalAmount), "", 1, "R", false, 0, "")

	// Payments
	if len(inv.Payments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(40, 8, "Payments:")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, p := range inv.Payments {
			pdf.Cell(140, 6, fmt.Sprintf("%s  %s", p.ProcessedAt.Format("2006-01-02 15:04"), p.Method))
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", p.Amount), "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(140, 8, "Balance:")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", inv.RemainingBalance()), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", inv.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
