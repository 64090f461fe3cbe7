package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/realtime"
	"github.com/booknbite/backend/scheduler"
	"github.com/booknbite/backend/utils"
)

type TableController struct {
	DB        *gorm.DB
	Scheduler *scheduler.Scheduler
}

func NewTableController(db *gorm.DB, sched *scheduler.Scheduler) *TableController {
	return &TableController{DB: db, Scheduler: sched}
}

// GetAvailableTables answers GET /api/tables/available?date&time&guests.
func (tc *TableController) GetAvailableTables(c *gin.Context) {
	date := c.Query("date")
	clock := c.Query("time")
	guestsParam := c.Query("guests")

	if date == "" || clock == "" || guestsParam == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("missing date, time, or guests"))
		return
	}
	guests, err := strconv.Atoi(guestsParam)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, scheduler.ErrInvalidInput)
		return
	}

	tables, err := tc.Scheduler.FindAvailableTables(date, clock, guests)
	if err != nil {
		utils.RespondError(c, schedulerStatus(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}

// CreateTable adds a table (admin). Table numbers are unique.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string             `json:"table_number" binding:"required"`
		Capacity    int                `json:"capacity" binding:"required,min=1"`
		Status      models.TableStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	tc.DB.Model(&models.Table{}).Where("table_number = ?", req.TableNumber).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("table already exists"))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      models.TableAvailable,
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table status %q", req.Status))
			return
		}
		table.Status = req.Status
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventTableCreate,
		Data:  table,
	})
	utils.InfoLogger.Printf("New table created: %s (capacity=%d, status=%s)",
		table.TableNumber, table.Capacity, table.Status)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables lists tables sorted by table number.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID returns one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable partially updates number, capacity and status (admin).
func (tc *TableController) UpdateTable(c *gin.Context) {
	var req struct {
		TableNumber string             `json:"table_number"`
		Capacity    int                `json:"capacity"`
		Status      models.TableStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table not found"))
		return
	}

	if req.TableNumber != "" {
		table.TableNumber = req.TableNumber
	}
	if req.Capacity > 0 {
		table.Capacity = req.Capacity
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table status %q", req.Status))
			return
		}
		table.Status = req.Status
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventTableUpdate,
		Data:  table,
	})
	utils.InfoLogger.Printf("Table %d updated (status=%s)", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table (admin).
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table not found"))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventTableDelete,
		Data:  gin.H{"table_id": table.ID},
	})
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", gin.H{"id": table.ID})
}
