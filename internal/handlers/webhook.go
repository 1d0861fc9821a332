package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"event-platform/internal/gateway"
	"event-platform/internal/orderid"
	ws "event-platform/internal/websocket"
)

// WebhookHandler receives asynchronous payment notifications from the
// gateway and reconciles ledger status. It always answers 200: the
// gateway's only reaction to an error status is blind redelivery,
// which is useless for payloads we rejected on purpose. A 200 here is
// an acknowledgment, not a success signal.
type WebhookHandler struct {
	Store ContributionStore
	Hub   *ws.Hub
	// WebhookSecret enables signature verification when set.
	WebhookSecret string
}

func NewWebhookHandler(contributions ContributionStore, hub *ws.Hub, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{Store: contributions, Hub: hub, WebhookSecret: webhookSecret}
}

// webhookPayload is the gateway's notification shape. test_object is
// only present on connectivity test events.
type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		TestObject json.RawMessage `json:"test_object"`
		Order      struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
		Payment struct {
			PaymentStatus string `json:"payment_status"`
		} `json:"payment"`
	} `json:"data"`
}

func ack(c *gin.Context, status, note string) {
	body := gin.H{"status": status}
	if note != "" {
		body["note"] = note
	}
	c.JSON(http.StatusOK, body)
}

// HandlePaymentNotification processes one gateway notification.
// Every early return is an acknowledgment with no state change;
// duplicate or out-of-order deliveries can at worst re-apply
// status = success, which is a no-op in effect.
func (h *WebhookHandler) HandlePaymentNotification(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Println("Failed to read webhook body:", err)
		ack(c, "rejected", "unreadable body")
		return
	}

	if h.WebhookSecret != "" {
		timestamp := c.GetHeader("x-webhook-timestamp")
		signature := c.GetHeader("x-webhook-signature")
		if !gateway.VerifySignature(h.WebhookSecret, timestamp, body, signature) {
			log.Println("Webhook signature verification failed")
			ack(c, "rejected", "signature mismatch")
			return
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Println("Failed to parse webhook payload:", err)
		ack(c, "rejected", "malformed payload")
		return
	}

	// Gateway connectivity test, nothing to reconcile.
	if payload.Type == "WEBHOOK" || len(payload.Data.TestObject) > 0 {
		ack(c, "ok", "test acknowledged")
		return
	}

	orderID := payload.Data.Order.OrderID
	paymentStatus := payload.Data.Payment.PaymentStatus
	if orderID == "" || paymentStatus == "" {
		log.Println("Webhook payload missing order_id or payment_status")
		ack(c, "rejected", "missing order_id or payment_status")
		return
	}

	contributionID, err := orderid.ParseContributionID(orderID)
	if err != nil {
		log.Println("Unparseable order_id in webhook:", orderID)
		ack(c, "rejected", "unrecognized order_id format")
		return
	}

	if paymentStatus != gateway.PaymentSuccess {
		// No negative transition exists; non-success statuses leave
		// the row pending for the sweeper to expire.
		log.Printf("Ignoring webhook for order %s with status %s", orderID, paymentStatus)
		ack(c, "ok", "ignored non-success status")
		return
	}

	if err := h.Store.MarkSuccess(contributionID); err != nil {
		// No retry is scheduled here; the gateway's own delivery
		// retries are the only recovery path.
		log.Printf("Failed to mark contribution %d successful: %v", contributionID, err)
		ack(c, "rejected", "failed to update contribution")
		return
	}

	log.Printf("Payment confirmed for contribution %d (order %s)", contributionID, orderID)

	if h.Hub != nil {
		if contribution, err := h.Store.GetByID(contributionID); err == nil {
			h.Hub.BroadcastAlert <- ws.ContributionAlert{
				EventID:        contribution.EventID,
				ContributionID: contribution.ID,
				Contributor:    contribution.Contributor,
				Amount:         contribution.Amount,
				Method:         contribution.Method,
				Status:         contribution.Status,
			}
		} else {
			log.Println("Failed to load contribution for alert:", err)
		}
	}

	ack(c, "ok", "")
}
