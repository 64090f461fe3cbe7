package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/realtime"
	"github.com/booknbite/backend/scheduler"
	"github.com/booknbite/backend/services"
	"github.com/booknbite/backend/utils"
)

type BookingController struct {
	DB        *gorm.DB
	Scheduler *scheduler.Scheduler
	Notifier  *services.Notifier
}

func NewBookingController(db *gorm.DB, sched *scheduler.Scheduler, notifier *services.Notifier) *BookingController {
	return &BookingController{DB: db, Scheduler: sched, Notifier: notifier}
}

// schedulerStatus maps scheduler errors onto HTTP codes.
func schedulerStatus(err error) int {
	switch {
	case errors.Is(err, scheduler.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scheduler.ErrTableConflict), errors.Is(err, scheduler.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateBooking books a table for the authenticated user.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req struct {
		Table          uint   `json:"table" binding:"required"`
		Date           string `json:"date" binding:"required"`
		Time           string `json:"time" binding:"required"`
		Guests         int    `json:"guests" binding:"required"`
		Name           string `json:"name" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Phone          string `json:"phone" binding:"required"`
		SpecialRequest string `json:"special_request"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint("user_id")
	booking, err := bc.Scheduler.CreateBooking(scheduler.CreateRequest{
		UserID:         userID,
		TableID:        req.Table,
		Date:           req.Date,
		Time:           req.Time,
		Guests:         req.Guests,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		utils.RespondError(c, schedulerStatus(err), err)
		return
	}

	bc.Notifier.BookingConfirmation(booking)
	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventBookingCreate,
		Data:  booking,
	})

	utils.InfoLogger.Printf("Booking %d created: table %d, %s - %s",
		booking.ID, booking.TableID,
		booking.ReservationStart.Format(time.RFC3339),
		booking.ReservationEnd.Format(time.RFC3339))
	utils.RespondJSON(c, http.StatusCreated, "Booking successful", booking)
}

// GetMyBookings lists the caller's bookings, newest reservation first.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := bc.DB.Preload("Table").
		Where("user_id = ?", userID).
		Order("reservation_start DESC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My bookings", bookings)
}

// GetAllBookings lists every booking (admin).
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := bc.DB.Preload("Table").Preload("User").
		Order("reservation_start DESC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All bookings", bookings)
}

// GetActiveBooking reports whether the caller is inside a grace-extended
// reservation window right now.
func (bc *BookingController) GetActiveBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	booking, err := bc.Scheduler.ActiveBooking(userID, time.Now())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if booking == nil {
		utils.RespondJSON(c, http.StatusOK, "No active booking", gin.H{"active": false})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active booking", gin.H{
		"active":  true,
		"booking": booking,
	})
}

// GetBookingByID returns one booking with its table.
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	var booking models.Booking
	if err := bc.DB.Preload("Table").First(&booking, c.Param("booking_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, scheduler.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateBooking moves a booking to a new slot/table with the same conflict
// check as creation, excluding the booking itself.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	var req struct {
		Table  uint   `json:"table" binding:"required"`
		Date   string `json:"date" binding:"required"`
		Time   string `json:"time" binding:"required"`
		Guests int    `json:"guests" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var bookingID uint
	if err := parseID(c.Param("booking_id"), &bookingID); err != nil {
		utils.RespondError(c, http.StatusNotFound, scheduler.ErrNotFound)
		return
	}

	booking, err := bc.Scheduler.UpdateBooking(bookingID, scheduler.UpdateRequest{
		TableID: req.Table,
		Date:    req.Date,
		Time:    req.Time,
		Guests:  req.Guests,
	})
	if err != nil {
		utils.RespondError(c, schedulerStatus(err), err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventBookingUpdate,
		Data:  booking,
	})
	utils.RespondJSON(c, http.StatusOK, "Booking updated successfully", booking)
}

// UpdateBookingStatus applies an admin transition (approve/cancel).
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	var req struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var bookingID uint
	if err := parseID(c.Param("booking_id"), &bookingID); err != nil {
		utils.RespondError(c, http.StatusNotFound, scheduler.ErrNotFound)
		return
	}

	booking, err := bc.Scheduler.SetStatus(bookingID, req.Status)
	if err != nil {
		utils.RespondError(c, schedulerStatus(err), err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventBookingStatus,
		Data:  booking,
	})
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// CancelBooking is the self-service cancel path, scoped to the owner.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookingID uint
	if err := parseID(c.Param("booking_id"), &bookingID); err != nil {
		utils.RespondError(c, http.StatusNotFound, scheduler.ErrNotFound)
		return
	}

	booking, err := bc.Scheduler.CancelBooking(bookingID, userID)
	if err != nil {
		utils.RespondError(c, schedulerStatus(err), err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventBookingCancel,
		Data:  booking,
	})
	utils.InfoLogger.Printf("Booking %d cancelled by user %d", booking.ID, userID)
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled successfully.", booking)
}

// DeleteBooking removes the record entirely (admin).
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	var booking models.Booking
	if err := bc.DB.First(&booking, c.Param("booking_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, scheduler.ErrNotFound)
		return
	}
	if err := bc.DB.Delete(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking deleted successfully", gin.H{"id": booking.ID})
}
