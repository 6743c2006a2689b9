// Package backend is the REST client for the commerce backend's /store
// surface. All business logic (pricing, inventory, payment, fulfillment)
// lives behind it; the storefront only renders what it returns.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/vitrine/storefront/internal/domain"
)

// ErrNotFound maps a backend 404. Callers render it as an in-page empty
// state, never as a process failure.
var ErrNotFound = errors.New("backend: not found")

type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name: "commerce-backend",
		// 404s and other client errors are the caller's problem,
		// not a sign the backend is down.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *statusError
			if errors.As(err, &se) {
				return se.Status < 500
			}
			return errors.Is(err, ErrNotFound)
		},
	}

	return &Client{
		baseURL: baseURL,
		httpc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

type statusError struct {
	Status int
	Method string
	Path   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend: %s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// do runs one request through the breaker and decodes the JSON response
// into out. There is no retry: a failed request stays failed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	data, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &statusError{Status: resp.StatusCode, Method: method, Path: path}
		}

		respData, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
		}
		return respData, nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// ProductQuery narrows GET /store/products. Zero values are omitted.
type ProductQuery struct {
	Limit        int
	Offset       int
	CollectionID string
	Query        string
}

// ProductList is a page of products plus the backend-reported total,
// which drives client-side pagination.
type ProductList struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.CollectionID != "" {
		params.Set("collection_id", q.CollectionID)
	}
	if q.Query != "" {
		params.Set("q", q.Query)
	}

	var out ProductList
	if err := c.do(ctx, http.MethodGet, "/store/products", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out struct {
		Product domain.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/products/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// ListCollections is called on every category page; singleflight collapses
// concurrent duplicate fetches into one backend request.
func (c *Client) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	v, err, _ := c.sfg.Do("collections", func() (interface{}, error) {
		var out struct {
			Collections []domain.Collection `json:"collections"`
		}
		if err := c.do(ctx, http.MethodGet, "/store/collections", nil, nil, &out); err != nil {
			return nil, err
		}
		return out.Collections, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Collection), nil
}

func (c *Client) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	var out struct {
		Collection domain.Collection `json:"collection"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/collections/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Collection, nil
}

type cartResponse struct {
	Cart domain.Cart `json:"cart"`
}

func (c *Client) CreateCart(ctx context.Context) (*domain.Cart, error) {
	var out cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var out cartResponse
	if err := c.do(ctx, http.MethodGet, "/store/carts/"+cartID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*domain.Cart, error) {
	body := map[string]any{
		"variant_id": variantID,
		"quantity":   quantity,
	}
	var out cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) UpdateLineItem(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error) {
	body := map[string]any{"quantity": quantity}
	var out cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items/"+lineID, nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) RemoveLineItem(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	var out cartResponse
	if err := c.do(ctx, http.MethodDelete, "/store/carts/"+cartID+"/line-items/"+lineID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

type customerResponse struct {
	Customer domain.Customer `json:"customer"`
}

func (c *Client) CreateCustomer(ctx context.Context, email, password, firstName, lastName string) (*domain.Customer, error) {
	body := map[string]any{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
	}
	var out customerResponse
	if err := c.do(ctx, http.MethodPost, "/store/customers", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Customer, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	var out customerResponse
	if err := c.do(ctx, http.MethodPost, "/store/auth", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

func (c *Client) CurrentCustomer(ctx context.Context) (*domain.Customer, error) {
	var out customerResponse
	if err := c.do(ctx, http.MethodGet, "/store/auth", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

func (c *Client) CustomerOrders(ctx context.Context) ([]domain.Order, error) {
	var out struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/customers/me/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) SetShippingAddress(ctx context.Context, cartID string, addr domain.Address) (*domain.Cart, error) {
	body := map[string]any{"address": addr}
	var out cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/shipping-address", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

// CompleteCheckout finalizes the cart into an order. The backend owns
// payment capture and fulfillment from here on.
func (c *Client) CompleteCheckout(ctx context.Context, cartID string) (*domain.Order, error) {
	var out struct {
		Type string       `json:"type"`
		Data domain.Order `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/complete", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
