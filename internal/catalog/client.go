package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service is the set of product operations the rest of stockroom depends on.
// It is implemented by *Client and by test fakes.
type Service interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, input ProductInput) (Product, error)
	Update(ctx context.Context, id ID, input ProductInput) (Product, error)
	Delete(ctx context.Context, id ID) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Routes describes where the products resource lives and how it is updated.
type Routes struct {
	Resource     string // collection path, e.g. /products
	UpdateMethod string // PATCH or PUT
}

// DefaultRoutes matches a json-server style backend.
func DefaultRoutes() Routes {
	return Routes{Resource: "/products", UpdateMethod: http.MethodPatch}
}

// Options tune a Client. Zero values pick sensible defaults.
type Options struct {
	Routes     Routes
	Timeout    time.Duration
	Logger     logrus.FieldLogger
	HTTPClient *http.Client
}

// Client talks to the products REST API. Each call performs exactly one
// request; retries and timeouts beyond the http.Client timeout are left to
// callers.
type Client struct {
	baseURL   *url.URL
	routes    Routes
	http      *http.Client
	log       logrus.FieldLogger
	userAgent string
}

const (
	defaultAPIBase   = "http://127.0.0.1:3001"
	defaultUserAgent = "stockroom/0.1"
	requestTimeout   = 5 * time.Second

	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// NewClient builds a Client for the API rooted at apiBase.
func NewClient(apiBase string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}

	routes := opts.Routes
	if strings.TrimSpace(routes.Resource) == "" {
		routes.Resource = DefaultRoutes().Resource
	}
	routes.UpdateMethod = strings.ToUpper(strings.TrimSpace(routes.UpdateMethod))
	switch routes.UpdateMethod {
	case "":
		routes.UpdateMethod = http.MethodPatch
	case http.MethodPatch, http.MethodPut:
	default:
		return nil, fmt.Errorf("unsupported update method %q", opts.Routes.UpdateMethod)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &Client{
		baseURL:   base,
		routes:    routes,
		http:      httpClient,
		log:       logger,
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.do(ctx, opList, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(body)
	if err != nil {
		return nil, c.decodeError(opList, http.MethodGet, c.collectionURL(), err)
	}
	return items, nil
}

// Create posts a new product and returns the server's representation.
func (c *Client) Create(ctx context.Context, input ProductInput) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	return c.write(ctx, opCreate, http.MethodPost, c.collectionURL(), input)
}

// Update sends input to the product addressed by id using the configured
// update verb.
func (c *Client) Update(ctx context.Context, id ID, input ProductInput) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	if id.IsZero() {
		return Product{}, fmt.Errorf("update: product id required")
	}
	return c.write(ctx, opUpdate, c.routes.UpdateMethod, c.itemURL(id), input)
}

// Delete removes the product addressed by id. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id ID) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id.IsZero() {
		return fmt.Errorf("delete: product id required")
	}
	_, err := c.do(ctx, opDelete, http.MethodDelete, c.itemURL(id), nil)
	return err
}

func (c *Client) write(ctx context.Context, op, method string, target *url.URL, input ProductInput) (Product, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return Product{}, fmt.Errorf("%s: encode request: %w", op, err)
	}
	body, err := c.do(ctx, op, method, target, payload)
	if err != nil {
		return Product{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return Product{}, nil
	}
	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return Product{}, c.decodeError(op, method, target, err)
	}
	return product, nil
}

func (c *Client) do(ctx context.Context, op, method string, target *url.URL, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithFields(logrus.Fields{
		"op":         op,
		"method":     method,
		"path":       target.Path,
		"request_id": requestID,
	})
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Warn("api request failed")
		return nil, &TransportError{Op: op, Method: method, Path: target.Path, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(resp.Body)
	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).Round(time.Millisecond),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry.Warn("api request rejected")
		return nil, &TransportError{Op: op, Method: method, Path: target.Path, StatusCode: resp.StatusCode}
	}
	if readErr != nil {
		entry.WithError(readErr).Warn("api response unreadable")
		return nil, &TransportError{Op: op, Method: method, Path: target.Path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", readErr)}
	}
	entry.Debug("api request")
	return body, nil
}

func (c *Client) decodeError(op, method string, target *url.URL, err error) error {
	return &TransportError{Op: op, Method: method, Path: target.Path, Err: fmt.Errorf("decode response: %w", err)}
}

func (c *Client) collectionURL() *url.URL {
	return c.baseURL.JoinPath(c.routes.Resource)
}

func (c *Client) itemURL(id ID) *url.URL {
	return c.baseURL.JoinPath(c.routes.Resource, url.PathEscape(id.String()))
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", apiBase)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
