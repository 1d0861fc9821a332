package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-platform/internal/models"
)

func webhookRouter(h *WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/payments/webhook", h.HandlePaymentNotification)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func successPayload(orderID, status string) string {
	return fmt.Sprintf(`{"type":"PAYMENT_WEBHOOK","data":{"order":{"order_id":%q},"payment":{"payment_status":%q}}}`, orderID, status)
}

func pendingOnlineRow(t *testing.T, st *fakeStore, eventID int64) models.Contribution {
	t.Helper()
	c := models.Contribution{
		EventID:     eventID,
		Contributor: "Ravi",
		Amount:      500,
		Method:      models.MethodOnline,
		Status:      models.StatusPending,
	}
	require.NoError(t, st.Insert(&c))
	return c
}

func TestWebhookMalformedBody(t *testing.T) {
	st := newFakeStore()
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	w := postWebhook(t, r, "{not json", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "malformed payload")
	assert.Empty(t, st.markCalls)
}

func TestWebhookConnectivityTest(t *testing.T) {
	st := newFakeStore()
	pendingOnlineRow(t, st, 1)
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	for _, body := range []string{
		`{"type":"WEBHOOK","data":{}}`,
		`{"type":"PAYMENT_WEBHOOK","data":{"test_object":{"ping":true}}}`,
	} {
		w := postWebhook(t, r, body, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "test acknowledged")
	}
	assert.Empty(t, st.markCalls)
}

func TestWebhookMissingFields(t *testing.T) {
	st := newFakeStore()
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	tests := []string{
		`{"type":"PAYMENT_WEBHOOK","data":{"payment":{"payment_status":"SUCCESS"}}}`,
		`{"type":"PAYMENT_WEBHOOK","data":{"order":{"order_id":"order_1_1"}}}`,
	}
	for _, body := range tests {
		w := postWebhook(t, r, body, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "missing order_id or payment_status")
	}
	assert.Empty(t, st.markCalls)
}

func TestWebhookBadOrderIDFormat(t *testing.T) {
	st := newFakeStore()
	row := pendingOnlineRow(t, st, 1)
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	for _, orderID := range []string{"bad_format", "order_abc_123", "order_12", "order_99999999999999999999_1"} {
		w := postWebhook(t, r, successPayload(orderID, "SUCCESS"), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "order_id format")
	}

	got, err := st.GetByID(row.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Empty(t, st.markCalls)
}

func TestWebhookSuccessMarksContribution(t *testing.T) {
	st := newFakeStore()
	row := pendingOnlineRow(t, st, 7)
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	orderID := fmt.Sprintf("order_%d_1700000000000", row.ID)
	w := postWebhook(t, r, successPayload(orderID, "SUCCESS"), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	got, err := st.GetByID(row.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, got.Status)

	// Duplicate delivery is a harmless overwrite.
	w = postWebhook(t, r, successPayload(orderID, "SUCCESS"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	got, err = st.GetByID(row.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, got.Status)
	assert.Equal(t, []int64{row.ID, row.ID}, st.markCalls)
}

func TestWebhookNonSuccessStatusIgnored(t *testing.T) {
	st := newFakeStore()
	row := pendingOnlineRow(t, st, 1)
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	for _, status := range []string{"FAILED", "PENDING", "USER_DROPPED"} {
		w := postWebhook(t, r, successPayload(fmt.Sprintf("order_%d_1", row.ID), status), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	got, err := st.GetByID(row.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Empty(t, st.markCalls)
}

func TestWebhookStoreFailureStillAcks(t *testing.T) {
	st := newFakeStore()
	row := pendingOnlineRow(t, st, 1)
	st.markErr = fmt.Errorf("db down")
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	w := postWebhook(t, r, successPayload(fmt.Sprintf("order_%d_1", row.ID), "SUCCESS"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "failed to update contribution")
}

func TestWebhookUnknownContributionStillAcks(t *testing.T) {
	st := newFakeStore()
	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	w := postWebhook(t, r, successPayload("order_42_1700000000000", "SUCCESS"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "failed to update contribution")
}

func TestWebhookSignatureVerification(t *testing.T) {
	st := newFakeStore()
	row := pendingOnlineRow(t, st, 1)
	secret := "whsec"
	r := webhookRouter(NewWebhookHandler(st, nil, secret))

	body := successPayload(fmt.Sprintf("order_%d_1", row.ID), "SUCCESS")
	ts := "1700000000"

	// Forged signature: acknowledged, ledger untouched.
	w := postWebhook(t, r, body, map[string]string{
		"x-webhook-timestamp": ts,
		"x-webhook-signature": "forged",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signature mismatch")
	got, _ := st.GetByID(row.ID)
	assert.Equal(t, models.StatusPending, got.Status)

	// Valid signature: processed.
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte(body))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	w = postWebhook(t, r, body, map[string]string{
		"x-webhook-timestamp": ts,
		"x-webhook-signature": sig,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	got, _ = st.GetByID(row.ID)
	assert.Equal(t, models.StatusSuccess, got.Status)
}

// The end-to-end reconciliation scenario: a pending online row is
// confirmed by a later gateway webhook.
func TestWebhookEndToEndReconciliation(t *testing.T) {
	st := newFakeStore()
	st.nextID = 42
	row := pendingOnlineRow(t, st, 9)
	require.Equal(t, int64(42), row.ID)

	r := webhookRouter(NewWebhookHandler(st, nil, ""))

	w := postWebhook(t, r, successPayload("order_42_1700000000000", "SUCCESS"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	got, err := st.GetByID(42)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, got.Status)
}
