package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopkart/internal/domain"
	paymentsvc "shopkart/internal/service/payment"
)

type createIntentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Method  string `json:"method" binding:"required"`
}

type confirmPaymentRequest struct {
	PaymentID  string `json:"paymentId" binding:"required"`
	GatewayRef string `json:"gatewayRef" binding:"required"`
}

func createIntentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in createIntentRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderId and method required"})
			return
		}
		intent, err := payments.CreateIntent(c.Request.Context(), callerIdentity(c).UserID, in.OrderID, domain.PaymentMethod(in.Method))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, intent)
	}
}

func confirmPaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in confirmPaymentRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paymentId and gatewayRef required"})
			return
		}
		payment, err := payments.Confirm(c.Request.Context(), in.PaymentID, in.GatewayRef)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

// webhookHandler accepts unauthenticated gateway callbacks. Unknown event
// types are acknowledged, not rejected, so the gateway stops retrying.
func webhookHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event paymentsvc.WebhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
			return
		}
		if err := payments.HandleWebhook(c.Request.Context(), event); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func getPaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, err := payments.GetByID(c.Request.Context(), callerIdentity(c).UserID, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func getPaymentByOrderHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, err := payments.GetByOrder(c.Request.Context(), callerIdentity(c).UserID, c.Param("orderId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func refundPaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, err := payments.Refund(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}
