package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"

	"plangen/config"
	"plangen/middleware"
	"plangen/models"
	"plangen/store"
	"plangen/utils"
)

type OrderController struct {
	Store *store.Store
	Cfg   *config.Config
	Email *utils.EmailService

	// newCFClient is swappable in tests.
	newCFClient func(apiKey, workspace string) *utils.ClickFunnelsClient
}

func NewOrderController(s *store.Store, cfg *config.Config, email *utils.EmailService) *OrderController {
	return &OrderController{
		Store:       s,
		Cfg:         cfg,
		Email:       email,
		newCFClient: utils.NewClickFunnelsClient,
	}
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID              string `json:"id"`
			CustomerDetails struct {
				Email string `json:"email"`
			} `json:"customer_details"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// StripeWebhook records completed checkout sessions. Repeated deliveries of
// the same session update the existing order row.
func (ctrl *OrderController) StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	if ctrl.Cfg.StripeWebhookSecret != "" {
		if err := verifyStripeSignature(payload, c.Get("Stripe-Signature"), ctrl.Cfg.StripeWebhookSecret); err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook signature!", nil)
		}
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	// Other event types are acknowledged so Stripe stops retrying them.
	if event.Type != "checkout.session.completed" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}

	session := event.Data.Object
	if session.ID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing session id!", nil)
	}

	order := models.Order{
		SessionID:   session.ID,
		Email:       session.CustomerDetails.Email,
		ProductID:   session.Metadata["product_id"],
		ProductName: session.Metadata["product_name"],
		Source:      "stripe",
		Status:      "paid",
	}
	if err := ctrl.Store.DB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "product_id", "product_name", "status"}),
	}).Create(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record order!", nil)
	}

	if order.Email != "" {
		ctrl.Email.SendOrderConfirmationEmail(order.Email, order.ProductName)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order recorded successfully!", nil)
}

// ValidateOrder checks a ClickFunnels order id against the workspace
// configured in settings and records the order when it exists.
func (ctrl *OrderController) ValidateOrder(c *fiber.Ctx) error {
	orderID := c.Query("order_id")
	if orderID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "order_id is required!", nil)
	}

	var setting models.Setting
	if err := ctrl.Store.DB().First(&setting).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Order validation is not configured!", nil)
	}

	client := ctrl.newCFClient(setting.CFApiKey, setting.CFWorkspaceID)
	validation, err := client.ValidateOrder(orderID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Order lookup failed!", nil)
	}

	if validation.Exists {
		order := models.Order{
			SessionID:   "cf_" + orderID,
			ProductID:   validation.ProductID,
			ProductName: validation.ProductName,
			Source:      "clickfunnels",
			Status:      "paid",
		}
		if err := ctrl.Store.DB().Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"product_id", "product_name", "status"}),
		}).Create(&order).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record order!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order validated.", validation)
}

// verifyStripeSignature checks the v1 HMAC scheme from the Stripe-Signature
// header. Signatures older than five minutes are rejected.
func verifyStripeSignature(payload []byte, header, secret string) error {
	if header == "" {
		return fmt.Errorf("missing signature header")
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp")
	}
	if time.Since(time.Unix(ts, 0)) > 5*time.Minute {
		return fmt.Errorf("signature too old")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}
