package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booknbite/backend/services"
	"github.com/booknbite/backend/utils"
)

// PaymentController exposes the card-payment flow. Gateway may be nil when
// no payment provider is configured; the endpoints then answer 503.
type PaymentController struct {
	Gateway   services.PaymentGateway
	PublicKey string
	Currency  string
}

func NewPaymentController(gateway services.PaymentGateway, publicKey, currency string) *PaymentController {
	return &PaymentController{Gateway: gateway, PublicKey: publicKey, Currency: currency}
}

// CreatePaymentIntent registers a card payment for the given amount (in the
// currency's smallest unit) and returns the client secret for the frontend.
func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	if pc.Gateway == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, errors.New("payment gateway not configured"))
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	secret, err := pc.Gateway.CreateIntent(req.Amount, pc.Currency)
	if err != nil {
		utils.ErrorLogger.Printf("Payment intent failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("payment intent creation failed"))
		return
	}

	utils.InfoLogger.Printf("Payment intent created for amount %d %s", req.Amount, pc.Currency)
	utils.RespondJSON(c, http.StatusOK, "Payment intent created", gin.H{
		"client_secret": secret,
	})
}

// GetPublishableKey hands the frontend the key it needs to start a payment.
func (pc *PaymentController) GetPublishableKey(c *gin.Context) {
	if pc.Gateway == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, errors.New("payment gateway not configured"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Publishable key", gin.H{
		"public_key": pc.PublicKey,
	})
}
