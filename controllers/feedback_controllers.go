package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/utils"
)

type FeedbackController struct {
	DB *gorm.DB
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db}
}

// SubmitFeedback stores a message from the authenticated user.
func (fc *FeedbackController) SubmitFeedback(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Subject string `json:"subject"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	feedback := models.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		UserID:  c.GetUint("user_id"),
	}
	if err := fc.DB.Create(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Feedback %d submitted by user %d", feedback.ID, feedback.UserID)
	utils.RespondJSON(c, http.StatusCreated, "Feedback submitted", feedback)
}

// GetAllFeedbacks lists every feedback with its author, newest first (admin).
func (fc *FeedbackController) GetAllFeedbacks(c *gin.Context) {
	var feedbacks []models.Feedback
	if err := fc.DB.Preload("User").
		Order("created_at DESC").
		Find(&feedbacks).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All feedbacks", feedbacks)
}

// DeleteFeedback removes one feedback (admin).
func (fc *FeedbackController) DeleteFeedback(c *gin.Context) {
	var feedback models.Feedback
	if err := fc.DB.First(&feedback, c.Param("feedback_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("feedback not found"))
		return
	}
	if err := fc.DB.Delete(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Feedback deleted", gin.H{"id": feedback.ID})
}
