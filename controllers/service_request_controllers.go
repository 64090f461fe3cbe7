package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/realtime"
	"github.com/booknbite/backend/scheduler"
	"github.com/booknbite/backend/utils"
)

// maxPendingRequests caps open requests per user so a single table cannot
// flood the staff queue.
const maxPendingRequests = 3

type ServiceRequestController struct {
	DB        *gorm.DB
	Scheduler *scheduler.Scheduler
}

func NewServiceRequestController(db *gorm.DB, sched *scheduler.Scheduler) *ServiceRequestController {
	return &ServiceRequestController{DB: db, Scheduler: sched}
}

// CreateServiceRequest files a table-side request. Only allowed while the
// caller is inside an active (grace-extended) reservation.
func (sc *ServiceRequestController) CreateServiceRequest(c *gin.Context) {
	var req struct {
		Type models.RequestType `json:"type" binding:"required"`
		Note string             `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.Type.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request type %q", req.Type))
		return
	}

	userID := c.GetUint("user_id")

	var pending int64
	if err := sc.DB.Model(&models.ServiceRequest{}).
		Where("user_id = ? AND status = ?", userID, models.RequestPending).
		Count(&pending).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if pending >= maxPendingRequests {
		utils.RespondError(c, http.StatusTooManyRequests,
			fmt.Errorf("you've reached the maximum of %d active service requests", maxPendingRequests))
		return
	}

	booking, err := sc.Scheduler.ActiveBooking(userID, time.Now())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if booking == nil {
		utils.RespondError(c, http.StatusForbidden,
			errors.New("you can only make a service request during your active reservation"))
		return
	}

	request := models.ServiceRequest{
		UserID:    userID,
		BookingID: booking.ID,
		Type:      req.Type,
		Note:      req.Note,
		Status:    models.RequestPending,
	}
	if err := sc.DB.Create(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	request.Booking = *booking

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventServiceRequestCreate,
		Data:  request,
	})
	utils.InfoLogger.Printf("Service request %d (%s) from user %d at table %s",
		request.ID, request.Type, userID, booking.Table.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Request submitted", request)
}

// GetMyServiceRequests lists the caller's requests, newest first.
func (sc *ServiceRequestController) GetMyServiceRequests(c *gin.Context) {
	userID := c.GetUint("user_id")

	var requests []models.ServiceRequest
	if err := sc.DB.Preload("Booking.Table").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My service requests", requests)
}

// GetAllServiceRequests lists every request (admin).
func (sc *ServiceRequestController) GetAllServiceRequests(c *gin.Context) {
	var requests []models.ServiceRequest
	if err := sc.DB.Preload("Booking.Table").Preload("User").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All service requests", requests)
}

// MarkRequestCompleted flags a request done and stamps completion time
// (admin). The timestamp drives the retention cleanup.
func (sc *ServiceRequestController) MarkRequestCompleted(c *gin.Context) {
	var request models.ServiceRequest
	if err := sc.DB.First(&request, c.Param("request_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("request not found"))
		return
	}

	now := time.Now()
	request.Status = models.RequestCompleted
	request.CompletedAt = &now
	if err := sc.DB.Save(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventServiceRequestUpdate,
		Data:  request,
	})
	utils.RespondJSON(c, http.StatusOK, "Request marked as completed", request)
}

// DeleteMyRequest cancels the caller's own request while still Pending.
func (sc *ServiceRequestController) DeleteMyRequest(c *gin.Context) {
	userID := c.GetUint("user_id")

	var request models.ServiceRequest
	if err := sc.DB.Where("id = ? AND user_id = ? AND status = ?",
		c.Param("request_id"), userID, models.RequestPending).
		First(&request).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("request not found or already processed"))
		return
	}

	if err := sc.DB.Delete(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Request cancelled successfully", gin.H{"id": request.ID})
}

// DeleteRequest removes any request (admin).
func (sc *ServiceRequestController) DeleteRequest(c *gin.Context) {
	var request models.ServiceRequest
	if err := sc.DB.First(&request, c.Param("request_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("request not found"))
		return
	}
	if err := sc.DB.Delete(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Request deleted successfully", gin.H{"id": request.ID})
}
