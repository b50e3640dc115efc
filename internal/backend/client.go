package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/oauth2"

	"github.com/photosync/photolist/internal/models"
	"github.com/photosync/photolist/internal/observability"
)

// APIError is a non-2xx answer from the gallery API
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Client is the HTTP implementation of Backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *observability.Logger
}

// NewClient creates a client for the API rooted at baseURL. A non-empty token
// is sent as a bearer token on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	httpClient := &http.Client{}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     observability.GetLogger().WithField("component", "backend"),
	}
}

// FetchCollection returns collection metadata
func (c *Client) FetchCollection(ctx context.Context, id int64) (*models.Collection, error) {
	var col models.Collection
	path := "/collections/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, "/collections/{id}", nil, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// FetchCollectionPhotos returns one page of a collection's photos in collection order
func (c *Client) FetchCollectionPhotos(ctx context.Context, id int64, offset, limit int) ([]models.Photo, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var photos []models.Photo
	path := "/collections/" + strconv.FormatInt(id, 10) + "/photos?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, "/collections/{id}/photos", nil, &photos); err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	return photos, nil
}

// SearchPhotos runs a photo search and returns one page with the server total
func (c *Client) SearchPhotos(ctx context.Context, criteria models.SearchCriteria, offset, limit int) (*models.SearchResult, error) {
	q := criteria.QueryValues()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var page models.PaginatedPhotos
	if err := c.do(ctx, http.MethodGet, "/photos/?"+q.Encode(), "/photos/", nil, &page); err != nil {
		return nil, err
	}

	items := page.Data
	if items == nil {
		items = []models.Photo{}
	}
	total := page.Meta.Total
	if total < len(items) {
		total = len(items)
	}
	return &models.SearchResult{Items: items, Total: total}, nil
}

// CreateCollection creates an empty collection
func (c *Client) CreateCollection(ctx context.Context, name string, description *string) (*models.Collection, error) {
	body := models.CreateCollectionRequest{Name: name, Description: description}

	var col models.Collection
	if err := c.do(ctx, http.MethodPost, "/collections", "/collections", body, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// AddPhotosToCollection appends photos to a collection by hothash
func (c *Client) AddPhotosToCollection(ctx context.Context, id int64, hothashes []string) error {
	body := models.AddPhotosToCollectionRequest{Hothashes: hothashes}
	path := "/collections/" + strconv.FormatInt(id, 10) + "/photos"
	return c.do(ctx, http.MethodPost, path, "/collections/{id}/photos", body, nil)
}

// do sends one JSON request. route is the templated path used to name the span.
func (c *Client) do(ctx context.Context, method, path, route string, body, out interface{}) error {
	ctx, span := observability.StartClientSpan(ctx, method, route)
	defer span.End()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			observability.RecordError(span, err)
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordError(span, err)
		c.logger.WithContext(ctx).Warnf("%s %s failed: %v", method, route, err)
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.WithContext(ctx).Debugf("%s %s -> %d in %s", method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(resp)}
		observability.RecordError(span, apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			observability.RecordError(span, err)
			return fmt.Errorf("decode %s response: %w", route, err)
		}
	}

	observability.SetSuccess(span)
	return nil
}

// errorDetail pulls a readable message out of an error body. The API answers
// with {"detail": "..."}, {"detail": [{"msg": "..."}]} or {"message": "..."}.
func errorDetail(resp *http.Response) string {
	fallback := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return fallback
	}

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fallback
	}

	switch v := payload.(type) {
	case string:
		return v
	case map[string]interface{}:
		if detail, ok := v["detail"]; ok && detail != nil {
			return describeDetail(detail)
		}
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fallback
}

func describeDetail(detail interface{}) string {
	switch d := detail.(type) {
	case string:
		return d
	case []interface{}:
		parts := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]interface{}); ok {
				if msg, ok := m["msg"].(string); ok {
					parts = append(parts, msg)
					continue
				}
			}
			encoded, _ := json.Marshal(item)
			parts = append(parts, string(encoded))
		}
		return strings.Join(parts, ", ")
	default:
		encoded, _ := json.Marshal(d)
		return string(encoded)
	}
}
