package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"event-platform/internal/gateway"
	"event-platform/internal/orderid"
)

// PaymentHandler exposes gateway order creation as its own endpoint
// for clients that manage the ledger insert themselves. It never
// touches the store; the caller supplies the contribution id the
// order id will embed.
type PaymentHandler struct {
	Gateway OrderCreator
	Cfg     gateway.Config
}

func NewPaymentHandler(gw OrderCreator, cfg gateway.Config) *PaymentHandler {
	return &PaymentHandler{Gateway: gw, Cfg: cfg}
}

type CreateOrderRequest struct {
	Amount         float64 `json:"amount"`
	Contributor    string  `json:"contributor"`
	ContributionID string  `json:"contribution_id"`
}

// CreateOrder validates the request, creates a gateway order with a
// fresh order_<contribution_id>_<millis> id, and on success forwards
// the gateway's response body verbatim so the caller gets the payment
// session token exactly as issued.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	if err := h.Cfg.Validate(); err != nil {
		log.Println("Gateway configuration error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway is not configured."})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}
	if strings.TrimSpace(req.Contributor) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contributor name is required"})
		return
	}
	contributionID := strings.TrimSpace(req.ContributionID)
	if contributionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contribution_id is required"})
		return
	}

	orderID := orderid.Build(contributionID)
	order := gateway.NewOrderRequest(h.Cfg, orderID, req.Amount, strings.TrimSpace(req.Contributor), contributionID)

	// Single attempt, no retry. A transient gateway failure is
	// surfaced to the caller instead of retried here.
	result, err := h.Gateway.CreateOrder(c.Request.Context(), order)
	if err != nil {
		log.Println("Gateway order creation failed:", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error: " + err.Error()})
		return
	}
	if !result.OK() {
		log.Println("Gateway rejected order:", result.ErrorMessage())
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error: " + result.ErrorMessage()})
		return
	}

	c.Data(http.StatusOK, "application/json", result.Body)
}
