package usps

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/address-verifier/app/models"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Base URL mặc định theo USPS_ENV
const (
	ProdOAuthURL      = "https://apis.usps.com/oauth2/v3/token"
	ProdAddressesBase = "https://apis.usps.com/addresses/v3"
	TEMOAuthURL       = "https://apis-tem.usps.com/oauth2/v3/token"
	TEMAddressesBase  = "https://apis-tem.usps.com/addresses/v3"
)

// Client gọi USPS Addresses v3 API bằng bearer token
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter // nil = không giới hạn
	logger     *zap.Logger
}

// NewClient tạo mới USPS Client
func NewClient(httpClient *http.Client, baseURL string, limiter *rate.Limiter, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    limiter,
		logger:     logger,
	}
}

// CityState tra city/state theo ZIP. Lỗi trả về là *StandardizationError stage "city-state".
func (c *Client) CityState(ctx context.Context, zipCode, bearer string) (*models.CityState, error) {
	reqURL := c.baseURL + "/city-state?" + url.Values{"ZIPCode": {zipCode}}.Encode()

	body, err := c.getJSON(ctx, models.StageCityState, reqURL, bearer)
	if err != nil {
		return nil, err
	}

	var cs models.CityState
	if err := json.Unmarshal(body, &cs); err != nil {
		return nil, &StandardizationError{
			Stage: models.StageCityState,
			Body:  string(body),
			URL:   reqURL,
			cause: eris.Wrap(err, "usps: parse city-state response"),
		}
	}
	return &cs, nil
}

// Standardize gửi query tới endpoint /address và trả về nguyên body JSON.
// Lỗi trả về là *StandardizationError stage "address".
func (c *Client) Standardize(ctx context.Context, q models.NormalizedQuery, bearer string) (json.RawMessage, error) {
	params := url.Values{
		"streetAddress": {q.StreetAddress},
		"city":          {q.City},
		"state":         {q.State},
		"ZIPCode":       {q.ZIPCode},
	}
	reqURL := c.baseURL + "/address?" + params.Encode()

	return c.getJSON(ctx, models.StageAddress, reqURL, bearer)
}

// getJSON GET có bearer, mọi status ngoài 2xx đều là lỗi, body rỗng coi như {}
func (c *Client) getJSON(ctx context.Context, stage, reqURL, bearer string) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &StandardizationError{Stage: stage, URL: reqURL, cause: eris.Wrap(err, "usps: rate limit")}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &StandardizationError{Stage: stage, URL: reqURL, cause: eris.Wrap(err, "usps: build request")}
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("[USPS "+stage+"] request failed", zap.String("stage", stage), zap.Error(err))
		return nil, &StandardizationError{Stage: stage, URL: reqURL, cause: eris.Wrap(err, "usps: request")}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &StandardizationError{Stage: stage, URL: reqURL, cause: eris.Wrap(err, "usps: read body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("[USPS "+stage+"]",
			zap.String("stage", stage),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &StandardizationError{Stage: stage, Status: resp.StatusCode, Body: string(body), URL: reqURL}
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(body) {
		return nil, &StandardizationError{
			Stage: stage,
			Body:  string(body),
			URL:   reqURL,
			cause: eris.New("usps: response is not valid JSON"),
		}
	}
	return json.RawMessage(body), nil
}
