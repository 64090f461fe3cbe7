package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/utils"
)

type RatingController struct {
	DB *gorm.DB
}

func NewRatingController(db *gorm.DB) *RatingController {
	return &RatingController{DB: db}
}

// RateMenuItem records or overwrites the caller's 1-5 star rating for a
// menu item.
func (rc *RatingController) RateMenuItem(c *gin.Context) {
	var req struct {
		Rating int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid rating value"))
		return
	}

	var itemID uint
	if err := parseID(c.Param("item_id"), &itemID); err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
		return
	}
	var item models.MenuItem
	if err := rc.DB.First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
		return
	}

	userID := c.GetUint("user_id")

	var rating models.Rating
	err := rc.DB.Where("user_id = ? AND menu_item_id = ?", userID, itemID).First(&rating).Error
	switch {
	case err == nil:
		rating.Rating = req.Rating
		if err := rc.DB.Save(&rating).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Rating updated", rating)
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.Rating{UserID: userID, MenuItemID: itemID, Rating: req.Rating}
		if err := rc.DB.Create(&rating).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusCreated, "Rating submitted", rating)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// GetUserRatings returns the caller's ratings keyed by menu item.
func (rc *RatingController) GetUserRatings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var ratings []models.Rating
	if err := rc.DB.Where("user_id = ?", userID).Find(&ratings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My ratings", ratings)
}
