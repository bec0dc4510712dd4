package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the AlienStore REST backend. Every call carries the
// caller's bearer credential; the client itself holds no session state.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new AlienStore backend client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// ListCarts fetches all cart records belonging to the credential's user
func (c *Client) ListCarts(ctx context.Context, token string) ([]Cart, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/carts", token, nil)
	if err != nil {
		return nil, err
	}

	var carts []Cart
	if err := json.Unmarshal(resp, &carts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal carts response: %w", err)
	}
	return carts, nil
}

// AddCartItem adds a product to the user's cart
func (c *Client) AddCartItem(ctx context.Context, token string, productID uint, quantity int) error {
	payload := map[string]interface{}{"product_id": productID, "qty": quantity}
	_, err := c.doRequest(ctx, http.MethodPost, "/carts", token, payload)
	return err
}

// UpdateCartItem sets the quantity of a product line inside a specific cart record
func (c *Client) UpdateCartItem(ctx context.Context, token string, cartID, productID uint, quantity int) error {
	payload := map[string]interface{}{"product_id": productID, "qty": quantity}
	path := fmt.Sprintf("/carts/%d", cartID)
	_, err := c.doRequest(ctx, http.MethodPut, path, token, payload)
	return err
}

// RemoveCartItem removes a product line from a specific cart record
func (c *Client) RemoveCartItem(ctx context.Context, token string, cartID, productID uint) error {
	payload := map[string]interface{}{"product_id": productID}
	path := fmt.Sprintf("/carts/%d", cartID)
	_, err := c.doRequest(ctx, http.MethodDelete, path, token, payload)
	return err
}

// DeleteCart removes an entire cart record
func (c *Client) DeleteCart(ctx context.Context, token string, cartID uint) error {
	path := fmt.Sprintf("/carts/%d", cartID)
	_, err := c.doRequest(ctx, http.MethodDelete, path, token, nil)
	return err
}

// CreateTransaction submits a single-product checkout and returns the order
// id plus the payment-gateway redirect URL
func (c *Client) CreateTransaction(ctx context.Context, token string, req CheckoutRequest) (*Transaction, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/transaksi", token, req)
	if err != nil {
		return nil, err
	}

	var tx Transaction
	if err := json.Unmarshal(resp, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction response: %w", err)
	}
	return &tx, nil
}

// PaymentStatus queries the payment-gateway callback status for an order
func (c *Client) PaymentStatus(ctx context.Context, token, orderID string) (*PaymentStatusInfo, error) {
	path := fmt.Sprintf("/payment/success/%s", orderID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	var info PaymentStatusInfo
	if err := json.Unmarshal(resp, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment status response: %w", err)
	}
	if info.OrderID == "" {
		info.OrderID = orderID
	}
	return &info, nil
}

// ListProducts fetches the storefront product catalog
func (c *Client) ListProducts(ctx context.Context, token string) ([]Product, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/products", token, nil)
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(resp, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products response: %w", err)
	}
	return products, nil
}

// ListCategories fetches the catalog categories
func (c *Client) ListCategories(ctx context.Context, token string) ([]Category, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/categories", token, nil)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := json.Unmarshal(resp, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories response: %w", err)
	}
	return categories, nil
}

// ListSubcategories fetches the catalog subcategories
func (c *Client) ListSubcategories(ctx context.Context, token string) ([]Subcategory, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/subcategories", token, nil)
	if err != nil {
		return nil, err
	}

	var subcategories []Subcategory
	if err := json.Unmarshal(resp, &subcategories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subcategories response: %w", err)
	}
	return subcategories, nil
}

// ListAdminOrders fetches the upstream order listing. The upstream wraps the
// rows inconsistently (bare array, {"data": [...]}, {"transaksi": [...]}, or
// a single object), so all four shapes are accepted.
func (c *Client) ListAdminOrders(ctx context.Context, token string) ([]AdminOrder, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/transaksi-admin", token, nil)
	if err != nil {
		return nil, err
	}

	var orders []AdminOrder
	if err := json.Unmarshal(resp, &orders); err == nil {
		return orders, nil
	}

	var envelope struct {
		Data      []AdminOrder `json:"data"`
		Transaksi []AdminOrder `json:"transaksi"`
	}
	if err := json.Unmarshal(resp, &envelope); err == nil {
		if len(envelope.Data) > 0 {
			return envelope.Data, nil
		}
		if len(envelope.Transaksi) > 0 {
			return envelope.Transaksi, nil
		}
	}

	var single AdminOrder
	if err := json.Unmarshal(resp, &single); err == nil && single.OrderID != "" {
		return []AdminOrder{single}, nil
	}

	return nil, fmt.Errorf("failed to unmarshal admin orders response")
}

// doRequest performs an HTTP request against the upstream API
func (c *Client) doRequest(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s %s", ErrUnauthorized, method, path)
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
		}

		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(body)
		}
		return nil, apiErr
	}

	return body, nil
}
