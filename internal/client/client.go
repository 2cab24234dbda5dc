package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sweetshop/internal/errors"
	"sweetshop/internal/model"
)

// Client is a JSON REST client for the sweet shop API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given base URL. An empty base URL produces
// relative request paths, which suits tests against httptest servers and
// same-origin deployments.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewFromEnv resolves the base URL from API_BASE_URL, defaulting to relative
// paths when unset.
func NewFromEnv() *Client {
	return New(os.Getenv("API_BASE_URL"))
}

// SetToken attaches a bearer token to subsequent mutation requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// SweetUpdatePayload is the wire shape of a partial update. Image is always
// present and carries the ImageDecision outcome.
type SweetUpdatePayload struct {
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Quantity *int             `json:"quantity,omitempty"`
	ImageURL *string          `json:"image_url"`
}

// EditForm is a completed edit submission for an existing sweet.
type EditForm struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
	Image    ImageForm
}

// BuildUpdate composes the update payload for an edit submission, running the
// image decision against the previous record. An oversized upload aborts the
// whole submission.
func BuildUpdate(previous *model.Sweet, form EditForm) (*SweetUpdatePayload, error) {
	image, err := ImageDecision(previous.ImageURL, form.Image)
	if err != nil {
		return nil, err
	}
	return &SweetUpdatePayload{
		Name:     &form.Name,
		Category: &form.Category,
		Price:    &form.Price,
		Quantity: &form.Quantity,
		ImageURL: image,
	}, nil
}

// Login obtains a bearer token and attaches it to the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return err
	}
	c.token = resp.AccessToken
	return nil
}

// ListSweets lists sweets, optionally filtered.
func (c *Client) ListSweets(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	path := "/api/sweets"
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var sweets []model.Sweet
	if err := c.do(ctx, http.MethodGet, path, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// GetSweet fetches a single sweet.
func (c *Client) GetSweet(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := c.do(ctx, http.MethodGet, "/api/sweets/"+id.String(), nil, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// CreateSweet creates a new sweet.
func (c *Client) CreateSweet(ctx context.Context, payload map[string]interface{}) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := c.do(ctx, http.MethodPost, "/api/sweets", payload, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// UpdateSweet applies a partial update built by BuildUpdate.
func (c *Client) UpdateSweet(ctx context.Context, id uuid.UUID, payload *SweetUpdatePayload) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := c.do(ctx, http.MethodPut, "/api/sweets/"+id.String(), payload, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// DeleteSweet removes a sweet.
func (c *Client) DeleteSweet(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/sweets/"+id.String(), nil, nil)
}

// RestockSweet adjusts the quantity by a signed delta.
func (c *Client) RestockSweet(ctx context.Context, id uuid.UUID, delta int) (*model.Sweet, error) {
	var sweet model.Sweet
	body := map[string]int{"delta": delta}
	if err := c.do(ctx, http.MethodPost, "/api/sweets/"+id.String()+"/restock", body, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr errors.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %d %s (%s)", method, path, resp.StatusCode, apiErr.Error, apiErr.Code)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
