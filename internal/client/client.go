package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/log"
)

// Config downstream service endpoints. Constructed once at startup and
// passed in explicitly; lifecycle equals process lifetime.
type Config struct {
	ProductBaseURL   string
	InventoryBaseURL string
	OrderBaseURL     string
	ShippingBaseURL  string
	Timeout          time.Duration
}

// Clients bundles the four downstream service clients behind one shared
// HTTP client with a bounded timeout.
type Clients struct {
	Product   *ProductClient
	Inventory *InventoryClient
	Order     *OrderClient
	Shipping  *ShippingClient
}

// New builds the client bundle
func New(cfg Config) *Clients {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Clients{
		Product:   &ProductClient{rest: restClient{service: "product", baseURL: cfg.ProductBaseURL, http: httpClient}},
		Inventory: &InventoryClient{rest: restClient{service: "inventory", baseURL: cfg.InventoryBaseURL, http: httpClient}},
		Order:     &OrderClient{rest: restClient{service: "order", baseURL: cfg.OrderBaseURL, http: httpClient}},
		Shipping:  &ShippingClient{rest: restClient{service: "shipping", baseURL: cfg.ShippingBaseURL, http: httpClient}},
	}
}

// errorBody error payload shape shared by the downstream services
type errorBody struct {
	Message string `json:"message"`
}

// restClient shared request plumbing and error translation for one
// downstream service. It never retries; retry policy belongs to callers.
type restClient struct {
	service string
	baseURL string
	http    *http.Client
}

func (c *restClient) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *restClient) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *restClient) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *restClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(err, apperr.KindUnexpected, "marshal request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return apperr.Wrap(err, apperr.KindUnexpected, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Connection failures and timeouts both land here.
		return apperr.Wrap(err, apperr.KindUnavailable,
			fmt.Sprintf("%s service unreachable", c.service))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Wrap(err, apperr.KindUnexpected,
				fmt.Sprintf("decode %s service response", c.service))
		}
		return nil
	}

	return c.translateStatus(resp)
}

func (c *restClient) translateStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	message := func() string {
		var body errorBody
		if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
			return body.Message
		}
		return fmt.Sprintf("%s service returned %d", c.service, resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperr.New(apperr.KindNotFound, message())
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperr.New(apperr.KindInvalidInput, message())
	case http.StatusConflict:
		return apperr.New(apperr.KindConflict, message())
	case http.StatusServiceUnavailable:
		return apperr.New(apperr.KindUnavailable, message())
	default:
		log.WithFields(map[string]interface{}{
			"service": c.service,
			"status":  resp.StatusCode,
			"body":    string(raw),
		}).Warn("Unexpected downstream status")
		return apperr.Newf(apperr.KindUnexpected,
			"%s service returned %d: %s", c.service, resp.StatusCode, string(raw))
	}
}

// ping probes the downstream liveness endpoint
func (c *restClient) ping(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}
