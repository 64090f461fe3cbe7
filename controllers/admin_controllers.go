package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetStats returns the dashboard counters.
func (ac *AdminController) GetStats(c *gin.Context) {
	var users, orders, bookings, menuItems, tables, requests int64

	ac.DB.Model(&models.User{}).Count(&users)
	ac.DB.Model(&models.Order{}).Count(&orders)
	ac.DB.Model(&models.Booking{}).Count(&bookings)
	ac.DB.Model(&models.MenuItem{}).Count(&menuItems)
	ac.DB.Model(&models.Table{}).Count(&tables)
	ac.DB.Model(&models.ServiceRequest{}).Count(&requests)

	utils.RespondJSON(c, http.StatusOK, "Admin stats", gin.H{
		"users":      users,
		"orders":     orders,
		"bookings":   bookings,
		"menu_items": menuItems,
		"tables":     tables,
		"requests":   requests,
	})
}

// GetAllUsers lists users, optionally filtered by role.
func (ac *AdminController) GetAllUsers(c *gin.Context) {
	q := ac.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Users", users)
}

// UpdateUserStatus blocks or re-activates an account.
func (ac *AdminController) UpdateUserStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != models.UserActive && req.Status != models.UserBlocked {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status value %q", req.Status))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.Status = req.Status
	if err := ac.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.InfoLogger.Printf("User %d status set to %s", user.ID, user.Status)
	utils.RespondJSON(c, http.StatusOK, "User status updated", user)
}

// ChangeUserRole flips a user between admin and customer.
func (ac *AdminController) ChangeUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleCustomer {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid role provided"))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.Role = req.Role
	if err := ac.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.InfoLogger.Printf("User %d role set to %s", user.ID, user.Role)
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("User role updated to %s", user.Role), user)
}

// DeleteUser removes an account (admin).
func (ac *AdminController) DeleteUser(c *gin.Context) {
	var user models.User
	if err := ac.DB.First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	if err := ac.DB.Delete(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"id": user.ID})
}

// GetNotifications returns the most recent persisted dashboard events.
func (ac *AdminController) GetNotifications(c *gin.Context) {
	var notifications []models.Notification
	if err := ac.DB.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifications)
}
