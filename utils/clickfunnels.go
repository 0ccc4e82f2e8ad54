package utils

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// OrderValidation is the outcome of looking up an order in ClickFunnels.
// Exists is false both for a 404 and for an order that carries no line items.
type OrderValidation struct {
	Exists      bool   `json:"exists"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}

type cfOrderResponse struct {
	ID        int    `json:"id"`
	PublicID  string `json:"public_id"`
	LineItems []struct {
		ProductID   int    `json:"products_id"`
		Description string `json:"description"`
	} `json:"line_items"`
}

// ClickFunnelsClient talks to the ClickFunnels v2 orders API for a single
// workspace. Credentials come from the settings row, not the environment.
type ClickFunnelsClient struct {
	rest      *resty.Client
	apiKey    string
	workspace string
}

func NewClickFunnelsClient(apiKey, workspace string) *ClickFunnelsClient {
	return NewClickFunnelsClientWithBase(apiKey, workspace,
		fmt.Sprintf("https://%s.myclickfunnels.com/api/v2", workspace))
}

// NewClickFunnelsClientWithBase points the client at an explicit base URL.
func NewClickFunnelsClientWithBase(apiKey, workspace, baseURL string) *ClickFunnelsClient {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")

	return &ClickFunnelsClient{rest: rest, apiKey: apiKey, workspace: workspace}
}

// ValidateOrder fetches the order by id and reports whether it exists along
// with its first line item.
func (c *ClickFunnelsClient) ValidateOrder(orderID string) (*OrderValidation, error) {
	if c.apiKey == "" || c.workspace == "" {
		return nil, fmt.Errorf("clickfunnels credentials are not configured")
	}

	var order cfOrderResponse
	resp, err := c.rest.R().
		SetAuthToken(c.apiKey).
		SetResult(&order).
		Get("/orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %v", err)
	}

	if resp.StatusCode() == 404 {
		return &OrderValidation{Exists: false}, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("clickfunnels API error: %s", resp.Status())
	}

	if len(order.LineItems) == 0 {
		return &OrderValidation{Exists: false}, nil
	}

	item := order.LineItems[0]
	return &OrderValidation{
		Exists:      true,
		ProductID:   fmt.Sprintf("%d", item.ProductID),
		ProductName: item.Description,
	}, nil
}
