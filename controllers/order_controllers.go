package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/realtime"
	"github.com/booknbite/backend/services"
	"github.com/booknbite/backend/utils"
)

// taxRate is applied to every order subtotal.
const taxRate = 0.10

type OrderController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
}

func NewOrderController(db *gorm.DB, notifier *services.Notifier) *OrderController {
	return &OrderController{DB: db, Notifier: notifier}
}

// PlaceOrder runs checkout: price the cart, apply tax and the per-person
// split, persist the order with its items and decrement stock. The order
// and the stock updates commit together; the confirmation email does not
// gate any of it.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req struct {
		CustomerName  string `json:"customer_name" binding:"required"`
		Phone         string `json:"phone" binding:"required"`
		Email         string `json:"email" binding:"required,email"`
		Address       string `json:"address" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
		SplitBetween  int    `json:"split_between"`
		Items         []struct {
			MenuItem uint `json:"menu_item" binding:"required"`
			Quantity int  `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.PaymentMethod != models.PaymentCash && req.PaymentMethod != models.PaymentCard {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid payment method %q", req.PaymentMethod))
		return
	}
	if req.SplitBetween < 1 {
		req.SplitBetween = 1
	}

	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.MenuItem)
	}

	var menuItems []models.MenuItem
	if err := oc.DB.Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	byID := make(map[uint]models.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}
	for _, it := range req.Items {
		if _, ok := byID[it.MenuItem]; !ok {
			utils.RespondError(c, http.StatusBadRequest, errors.New("some menu items are invalid or missing"))
			return
		}
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		menu := byID[it.MenuItem]
		subtotal += menu.Price * float64(it.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menu.ID,
			Quantity:   it.Quantity,
			Price:      menu.Price,
		})
	}

	tax := subtotal * taxRate
	total := subtotal + tax
	perPerson := math.Round(total/float64(req.SplitBetween)*100) / 100

	userID := c.GetUint("user_id")
	order := models.Order{
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		PaymentMethod:   req.PaymentMethod,
		Items:           orderItems,
		TotalPrice:      total,
		Tax:             tax,
		PerPersonAmount: perPerson,
		SplitBetween:    req.SplitBetween,
		Status:          models.OrderPending,
		UserID:          userID,
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// Stock floors at zero; an item sold out mid-order is still sold.
		for _, it := range req.Items {
			menu := byID[it.MenuItem]
			menu.Stock -= it.Quantity
			if menu.Stock <= 0 {
				menu.Stock = 0
				menu.Available = false
			}
			if err := tx.Save(&menu).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.Notifier.OrderConfirmation(&order)
	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventOrderCreate,
		Data:  order,
	})

	utils.InfoLogger.Printf("Order %d placed: total %s", order.ID, utils.FormatCurrency(order.TotalPrice))
	utils.RespondJSON(c, http.StatusCreated, "Order placed successfully", order)
}

// GetAllOrders lists every order (admin).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items.MenuItem").Preload("User").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All orders", orders)
}

// GetMyOrders lists the caller's orders.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	var orders []models.Order
	if err := oc.DB.Preload("Items.MenuItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

// GetOrderByID returns one order with its items.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	if err := oc.DB.Preload("Items.MenuItem").Preload("User").
		First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus applies an admin transition on the order state machine.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.Status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status %q", req.Status))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if order.Status != req.Status {
		if !order.Status.CanTransition(req.Status) {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("cannot move order from %s to %s", order.Status, req.Status))
			return
		}
		order.Status = req.Status
		if err := oc.DB.Save(&order).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventOrderUpdate,
		Data:  order,
	})
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder is the self-service cancel path, owner-scoped, Pending only.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	var order models.Order
	if err := oc.DB.Where("id = ? AND user_id = ?", c.Param("order_id"), userID).
		First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	if order.Status == models.OrderCancelled {
		utils.RespondJSON(c, http.StatusOK, "Order cancelled successfully.", order)
		return
	}
	if order.Status != models.OrderPending {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("order can no longer be cancelled (status %s)", order.Status))
		return
	}

	order.Status = models.OrderCancelled
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled successfully.", order)
}

// DeleteOrder removes an order and its items (admin).
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted successfully", gin.H{"id": order.ID})
}
