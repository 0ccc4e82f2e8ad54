package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"plangen/config"
	"plangen/models"
	"plangen/store"
	"plangen/utils"
)

const webhookSecret = "whsec_test"

func setupOrderTest(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()

	cfg := &config.Config{StripeWebhookSecret: webhookSecret}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.Setting{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	st := store.New(db)
	ctrl := NewOrderController(st, cfg, utils.NewEmailService(cfg))

	app := fiber.New()
	app.Post("/api/orders/stripe/webhook", ctrl.StripeWebhook)
	app.Get("/api/orders/validate", ctrl.ValidateOrder)
	return app, st
}

func signPayload(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/orders/stripe/webhook", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestStripeWebhookRecordsOrder(t *testing.T) {
	app, st := setupOrderTest(t)

	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_123",
			"customer_details": {"email": "buyer@example.com"},
			"metadata": {"product_id": "prod_1", "product_name": "Plan Generator"}
		}}
	}`)

	code := postWebhook(t, app, payload, signPayload(payload, webhookSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, code)

	var order models.Order
	require.NoError(t, st.DB().Where("session_id = ?", "cs_test_123").First(&order).Error)
	assert.Equal(t, "buyer@example.com", order.Email)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, "stripe", order.Source)

	// Stripe retries deliveries; the same session must not duplicate
	code = postWebhook(t, app, payload, signPayload(payload, webhookSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, code)

	var count int64
	st.DB().Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	app, st := setupOrderTest(t)

	payload := []byte(`{"type": "checkout.session.completed", "data": {"object": {"id": "cs_x"}}}`)

	assert.Equal(t, fiber.StatusUnauthorized, postWebhook(t, app, payload, ""))
	assert.Equal(t, fiber.StatusUnauthorized,
		postWebhook(t, app, payload, signPayload(payload, "whsec_wrong", time.Now())))

	// Stale signatures are replay attempts
	assert.Equal(t, fiber.StatusUnauthorized,
		postWebhook(t, app, payload, signPayload(payload, webhookSecret, time.Now().Add(-10*time.Minute))))

	var count int64
	st.DB().Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestStripeWebhookIgnoresOtherEvents(t *testing.T) {
	app, st := setupOrderTest(t)

	payload := []byte(`{"type": "invoice.paid", "data": {"object": {"id": "in_1"}}}`)
	code := postWebhook(t, app, payload, signPayload(payload, webhookSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, code, "unknown events are acknowledged so Stripe stops retrying")

	var count int64
	st.DB().Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestValidateOrderRecordsExistingOrder(t *testing.T) {
	_, st := setupOrderTest(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/555", r.URL.Path)
		assert.Equal(t, "Bearer cf-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 555, "public_id": "ord_555", "line_items": [{"products_id": 42, "description": "Starter Plan"}]}`)
	}))
	defer server.Close()

	require.NoError(t, st.DB().Create(&models.Setting{CFApiKey: "cf-key", CFWorkspaceID: "acme"}).Error)

	// Reach the controller through a client pinned to the fake workspace
	cfg := &config.Config{}
	ctrl := NewOrderController(st, cfg, utils.NewEmailService(cfg))
	ctrl.newCFClient = func(apiKey, workspace string) *utils.ClickFunnelsClient {
		return utils.NewClickFunnelsClientWithBase(apiKey, workspace, server.URL)
	}
	app := fiber.New()
	app.Get("/api/orders/validate", ctrl.ValidateOrder)

	req := httptest.NewRequest("GET", "/api/orders/validate?order_id=555", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	validation := result["data"].(map[string]any)
	assert.Equal(t, true, validation["exists"])
	assert.Equal(t, "42", validation["product_id"])
	assert.Equal(t, "Starter Plan", validation["product_name"])

	var order models.Order
	require.NoError(t, st.DB().Where("session_id = ?", "cf_555").First(&order).Error)
	assert.Equal(t, "clickfunnels", order.Source)
	assert.Equal(t, "paid", order.Status)
}

func TestValidateOrderWithoutSettings(t *testing.T) {
	app, _ := setupOrderTest(t)

	req := httptest.NewRequest("GET", "/api/orders/validate?order_id=123", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/orders/validate", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
