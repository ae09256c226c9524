package here

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultGeocodeURL endpoint geocode mặc định của HERE
const DefaultGeocodeURL = "https://geocode.search.hereapi.com/v1/geocode"

// Address các trường địa chỉ HERE trả về
type Address struct {
	Label       string `json:"label"`
	CountryCode string `json:"countryCode"`
	StateCode   string `json:"stateCode"`
	State       string `json:"state"`
	County      string `json:"county"`
	City        string `json:"city"`
	District    string `json:"district"`
	Street      string `json:"street"`
	PostalCode  string `json:"postalCode"`
	HouseNumber string `json:"houseNumber"`
}

// Position toạ độ của item
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Scoring điểm tin cậy của item
type Scoring struct {
	QueryScore *float64 `json:"queryScore"`
}

// Item một kết quả geocode
type Item struct {
	Title           string    `json:"title"`
	ResultType      string    `json:"resultType"`
	HouseNumberType string    `json:"houseNumberType"`
	Address         Address   `json:"address"`
	Position        *Position `json:"position"`
	Scoring         Scoring   `json:"scoring"`
}

// Response body của /v1/geocode
type Response struct {
	Items []Item `json:"items"`
}

// First trả về item đầu tiên hoặc nil
func (r *Response) First() *Item {
	if r == nil || len(r.Items) == 0 {
		return nil
	}
	return &r.Items[0]
}

// GeocodeError lỗi gọi HERE, Status = 0 khi lỗi mạng/timeout
type GeocodeError struct {
	Status int
	Body   string
	cause  error
}

func (e *GeocodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("here geocode: %v", e.cause)
	}
	return fmt.Sprintf("here geocode: HTTP %d", e.Status)
}

func (e *GeocodeError) Unwrap() error { return e.cause }

// Client gọi HERE Geocoding & Search API
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient tạo mới HERE Client. endpoint rỗng dùng DefaultGeocodeURL.
func NewClient(httpClient *http.Client, endpoint, apiKey string, limiter *rate.Limiter, logger *zap.Logger) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultGeocodeURL
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		limiter:    limiter,
		logger:     logger,
	}
}

// Configured cho biết đã có API key chưa
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Geocode gửi một dòng địa chỉ tự do, trả về response đã parse và body gốc
func (c *Client) Geocode(ctx context.Context, query string) (*Response, json.RawMessage, error) {
	if !c.Configured() {
		return nil, nil, &GeocodeError{cause: eris.New("HERE_API_KEY not configured")}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, &GeocodeError{cause: eris.Wrap(err, "here: rate limit")}
		}
	}

	reqURL := c.endpoint + "?" + url.Values{"q": {query}, "apiKey": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, &GeocodeError{cause: eris.Wrap(err, "here: build request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = redactURL(err)
		c.logger.Error("[HERE geocode] request failed", zap.String("stage", "here-geocode"), zap.Error(err))
		return nil, nil, &GeocodeError{cause: eris.Wrap(err, "here: request")}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &GeocodeError{cause: eris.Wrap(err, "here: read body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("[HERE geocode]",
			zap.String("stage", "here-geocode"),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, nil, &GeocodeError{Status: resp.StatusCode, Body: string(body)}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, nil, &GeocodeError{Body: string(body), cause: eris.Wrap(err, "here: parse response")}
	}
	return &out, json.RawMessage(body), nil
}

// redactURL bỏ URL (chứa apiKey) khỏi lỗi của http.Client
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
