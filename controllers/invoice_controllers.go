package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/utils"
)

// InvoiceController renders downloadable PDFs for orders and bookings.
type InvoiceController struct {
	DB *gorm.DB
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db}
}

// invoiceNumber builds a unique human-readable reference.
func invoiceNumber(prefix string) string {
	short := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s/%s/%s", prefix, time.Now().Format("20060102"), strings.ToUpper(short))
}

// OrderInvoicePDF streams the invoice for one order.
func (ic *InvoiceController) OrderInvoicePDF(c *gin.Context) {
	var order models.Order
	if err := ic.DB.Preload("Items.MenuItem").Preload("User").
		First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice No: %s", invoiceNumber("INV")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Order ID: %d", order.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Customer Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Name: %s", order.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Email: %s", order.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Phone: %s", order.Phone), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Address: %s", order.Address), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Items Ordered", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i, item := range order.Items {
		line := fmt.Sprintf("%d. %s - %s x %d = %s",
			i+1, item.MenuItem.Title,
			utils.FormatCurrency(item.Price), item.Quantity,
			utils.FormatCurrency(item.Price*float64(item.Quantity)))
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Pricing Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Payment Method: %s", order.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Tax (10%%): %s", utils.FormatCurrency(order.Tax)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %s", utils.FormatCurrency(order.TotalPrice)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Split Between: %d", order.SplitBetween), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Per Person: %s", utils.FormatCurrency(order.PerPersonAmount)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Thank you for dining with BooknBite!", "", 1, "C", false, 0, "")

	ic.stream(c, pdf, fmt.Sprintf("invoice_%d.pdf", order.ID))
}

// BookingConfirmationPDF streams the confirmation sheet for one booking.
func (ic *InvoiceController) BookingConfirmationPDF(c *gin.Context) {
	var booking models.Booking
	if err := ic.DB.Preload("Table").Preload("User").
		First(&booking, c.Param("booking_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "BooknBite - Booking Confirmation", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Booking ID: %d", booking.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date Created: %s", booking.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Customer Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Name: %s", booking.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Email: %s", booking.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Phone: %s", booking.Phone), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Booking Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", booking.ReservationStart.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Time: %s - %s",
		booking.ReservationStart.Format("15:04"),
		booking.ReservationEnd.Format("15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Guests: %d", booking.Guests), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Table Number: %s", booking.Table.TableNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Table Capacity: %d", booking.Table.Capacity), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", booking.Status), "", 1, "L", false, 0, "")
	if booking.SpecialRequest != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Special Request: %s", booking.SpecialRequest), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Thank you for booking with BooknBite!", "", 1, "C", false, 0, "")

	ic.stream(c, pdf, fmt.Sprintf("booking_%d.pdf", booking.ID))
}

func (ic *InvoiceController) stream(c *gin.Context, pdf *fpdf.Fpdf, filename string) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.ErrorLogger.Printf("PDF generation failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error generating document"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
