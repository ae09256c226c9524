package usps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// EarlyExpiry token bị coi là hết hạn sớm 60s trước expiresAt
	EarlyExpiry = 60 * time.Second

	defaultExpiresIn = 3600
)

// OAuthConfig thông tin client-credentials cho USPS
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// TokenCache giữ bearer token dùng chung trong process và làm mới trước khi hết hạn.
// oauth2.ReuseTokenSource khoá trong lúc fetch nên các request chạy đua chỉ tạo ra một lần gọi.
type TokenCache struct {
	source  oauth2.TokenSource
	fetcher *tokenFetcher
}

// NewTokenCache tạo mới TokenCache
func NewTokenCache(httpClient *http.Client, cfg OAuthConfig, logger *zap.Logger) *TokenCache {
	fetcher := &tokenFetcher{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
	return &TokenCache{
		source:  oauth2.ReuseTokenSourceWithExpiry(nil, fetcher, EarlyExpiry),
		fetcher: fetcher,
	}
}

// Acquire trả về bearer token còn hạn, fetch mới nếu chưa có hoặc sắp hết hạn.
// Lỗi trả về luôn là *AuthError.
func (tc *TokenCache) Acquire(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &AuthError{cause: err}
	}

	tok, err := tc.source.Token()
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return "", authErr
		}
		return "", &AuthError{cause: err}
	}
	return tok.AccessToken, nil
}

// Fetches số lần đã gọi OAuth endpoint
func (tc *TokenCache) Fetches() int64 {
	return tc.fetcher.fetches.Load()
}

// Status cho biết đang có token còn hạn trong cache không (dùng cho admin stats)
func (tc *TokenCache) Status() (cached bool, expiresAt time.Time) {
	tc.fetcher.mu.Lock()
	defer tc.fetcher.mu.Unlock()

	expiresAt = tc.fetcher.expiresAt
	return !expiresAt.IsZero() && time.Now().Before(expiresAt.Add(-EarlyExpiry)), expiresAt
}

// tokenFetcher thực hiện client-credentials exchange, implement oauth2.TokenSource
type tokenFetcher struct {
	httpClient *http.Client
	cfg        OAuthConfig
	logger     *zap.Logger
	fetches    atomic.Int64

	mu        sync.Mutex
	expiresAt time.Time
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// Token implement oauth2.TokenSource
func (tf *tokenFetcher) Token() (*oauth2.Token, error) {
	tf.fetches.Add(1)

	payload, err := json.Marshal(tokenRequest{
		ClientID:     tf.cfg.ClientID,
		ClientSecret: tf.cfg.ClientSecret,
		GrantType:    "client_credentials",
	})
	if err != nil {
		return nil, &AuthError{cause: eris.Wrap(err, "usps: marshal token request")}
	}

	// TokenSource không nhận context, timeout do httpClient đảm nhiệm
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tf.cfg.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &AuthError{cause: eris.Wrap(err, "usps: build token request")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tf.httpClient.Do(req)
	if err != nil {
		tf.logger.Error("[USPS OAuth] request failed", zap.String("stage", "oauth"), zap.Error(err))
		return nil, &AuthError{cause: eris.Wrap(err, "usps: token request")}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{cause: eris.Wrap(err, "usps: read token body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tf.logger.Error("[USPS OAuth]",
			zap.String("stage", "oauth"),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &AuthError{Body: string(body), cause: eris.Wrap(err, "usps: parse token response")}
	}
	if strings.TrimSpace(tr.AccessToken) == "" {
		return nil, &AuthError{Body: string(body), cause: eris.New("usps: token response missing access_token")}
	}

	expiresIn := int64(defaultExpiresIn)
	if tr.ExpiresIn != "" {
		if n, err := tr.ExpiresIn.Float64(); err == nil && n > 0 {
			expiresIn = int64(n)
		}
	}
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)

	tf.mu.Lock()
	tf.expiresAt = expiresAt
	tf.mu.Unlock()

	tf.logger.Debug("Đã lấy USPS token mới", zap.Int64("expires_in", expiresIn))

	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      expiresAt,
	}, nil
}
