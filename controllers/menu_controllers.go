package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/utils"
)

const (
	menuCacheKey = "menu:all"
	menuCacheTTL = 30 * time.Second
)

// MenuController serves the public menu and admin CRUD. Cache may be nil,
// in which case every read hits the database.
type MenuController struct {
	DB    *gorm.DB
	Cache *redis.Client
}

func NewMenuController(db *gorm.DB, cache *redis.Client) *MenuController {
	return &MenuController{DB: db, Cache: cache}
}

// GetAllMenuItems lists the menu, served from Redis when a fresh copy
// exists.
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	if mc.Cache != nil {
		if raw, err := mc.Cache.Get(c.Request.Context(), menuCacheKey).Bytes(); err == nil {
			var items []models.MenuItem
			if json.Unmarshal(raw, &items) == nil {
				utils.RespondJSON(c, http.StatusOK, "Menu items", items)
				return
			}
		}
	}

	var items []models.MenuItem
	if err := mc.DB.Order("category, title").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if mc.Cache != nil {
		if raw, err := json.Marshal(items); err == nil {
			mc.Cache.Set(c.Request.Context(), menuCacheKey, raw, menuCacheTTL)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

// CreateMenuItem adds a dish (admin).
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Price       float64             `json:"price" binding:"required,gt=0"`
		Category    models.MenuCategory `json:"category" binding:"required"`
		Image       string              `json:"image" binding:"required"`
		Stock       int                 `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.Category.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid category %q", req.Category))
		return
	}

	item := models.MenuItem{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
		Available:   req.Stock > 0,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.invalidate(c.Request.Context())
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem partially updates a dish (admin).
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("item not found"))
		return
	}

	var req struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Price       *float64             `json:"price"`
		Category    *models.MenuCategory `json:"category"`
		Image       *string              `json:"image"`
		Stock       *int                 `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil && *req.Price > 0 {
		item.Price = *req.Price
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid category %q", *req.Category))
			return
		}
		item.Category = *req.Category
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
		item.Available = *req.Stock > 0
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.invalidate(c.Request.Context())
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem removes a dish (admin).
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("item not found"))
		return
	}
	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.invalidate(c.Request.Context())
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": item.ID})
}

func (mc *MenuController) invalidate(ctx context.Context) {
	if mc.Cache != nil {
		mc.Cache.Del(ctx, menuCacheKey)
	}
}
