package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"event-platform/internal/gateway"
	"event-platform/internal/models"
	"event-platform/internal/orderid"
	"event-platform/internal/store"
	ws "event-platform/internal/websocket"
)

// ContributionStore is the slice of the ledger store the contribution
// and webhook handlers need. *store.Contributions satisfies it; tests
// use fakes.
type ContributionStore interface {
	Insert(c *models.Contribution) error
	ListByEvent(eventID int64) ([]models.Contribution, error)
	GetByID(id int64) (models.Contribution, error)
	MarkSuccess(id int64) error
	Delete(id int64) error
}

// OrderCreator creates orders at the payment gateway.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order gateway.OrderRequest) (*gateway.OrderResult, error)
}

type ContributionHandler struct {
	Store   ContributionStore
	Gateway OrderCreator
	Cfg     gateway.Config
	Hub     *ws.Hub
}

func NewContributionHandler(contributions ContributionStore, gw OrderCreator, cfg gateway.Config, hub *ws.Hub) *ContributionHandler {
	return &ContributionHandler{Store: contributions, Gateway: gw, Cfg: cfg, Hub: hub}
}

type CreateContributionRequest struct {
	Contributor string  `json:"contributor"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
}

// ListContributions returns an event's ledger, newest first.
func (h *ContributionHandler) ListContributions(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	contributions, err := h.Store.ListByEvent(eventID)
	if err != nil {
		log.Println("Failed to list contributions:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch contributions"})
		return
	}

	c.JSON(http.StatusOK, contributions)
}

// CreateContribution records a contribution. Cash entries are final on
// insert. Online entries are inserted pending first so the generated
// row id can be embedded in the gateway order id; the row then moves
// to success only when the payment webhook arrives.
func (h *ContributionHandler) CreateContribution(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Contributor) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contributor name is required"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}
	if req.Method != models.MethodCash && req.Method != models.MethodOnline {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Method must be cash or online"})
		return
	}

	status := models.StatusSuccess
	if req.Method == models.MethodOnline {
		status = models.StatusPending
	}

	contribution := models.Contribution{
		EventID:     eventID,
		Contributor: strings.TrimSpace(req.Contributor),
		Amount:      req.Amount,
		Method:      req.Method,
		Status:      status,
	}

	if err := h.Store.Insert(&contribution); err != nil {
		log.Println("Failed to insert contribution:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	h.broadcast(contribution)

	if contribution.Method == models.MethodCash {
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Contribution recorded.",
			"contribution": contribution,
		})
		return
	}

	// Online: the pending row exists, now get a checkout session. If
	// anything below fails the row stays pending and the sweeper
	// eventually expires it.
	if err := h.Cfg.Validate(); err != nil {
		log.Println("Gateway configuration error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway is not configured."})
		return
	}

	contributionID := strconv.FormatInt(contribution.ID, 10)
	orderID := orderid.Build(contributionID)
	order := gateway.NewOrderRequest(h.Cfg, orderID, contribution.Amount, contribution.Contributor, contributionID)

	result, err := h.Gateway.CreateOrder(c.Request.Context(), order)
	if err != nil {
		log.Println("Gateway order creation failed:", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error."})
		return
	}
	if !result.OK() {
		log.Println("Gateway rejected order:", result.ErrorMessage())
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error: " + result.ErrorMessage()})
		return
	}

	var session struct {
		PaymentSessionID string `json:"payment_session_id"`
	}
	if err := json.Unmarshal(result.Body, &session); err != nil || session.PaymentSessionID == "" {
		log.Println("Gateway response missing payment_session_id")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway returned an unusable response."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Payment session created.",
		"contribution":       contribution,
		"order_id":           orderID,
		"payment_session_id": session.PaymentSessionID,
	})
}

func (h *ContributionHandler) DeleteContribution(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contribution id"})
		return
	}

	if err := h.Store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contribution not found"})
			return
		}
		log.Println("Failed to delete contribution:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contribution deleted."})
}

func (h *ContributionHandler) broadcast(contribution models.Contribution) {
	if h.Hub == nil {
		return
	}
	h.Hub.BroadcastAlert <- ws.ContributionAlert{
		EventID:        contribution.EventID,
		ContributionID: contribution.ID,
		Contributor:    contribution.Contributor,
		Amount:         contribution.Amount,
		Method:         contribution.Method,
		Status:         contribution.Status,
	}
}
