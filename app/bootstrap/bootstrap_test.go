package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/address-verifier/app/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const standardized = `{"address":{"streetAddress":"1600 PENNSYLVANIA AVE NW","city":"WASHINGTON","state":"DC","ZIPCode":"20500"},"additionalInfo":{"DPVConfirmation":"Y"}}`

const geocoded = `{"items":[{"title":"1600 Pennsylvania Ave NW, Washington, DC 20500","resultType":"houseNumber","houseNumberType":"PA","address":{"label":"1600 Pennsylvania Ave NW, Washington, DC 20500, United States","countryCode":"USA","stateCode":"DC","county":"District of Columbia","city":"Washington","street":"Pennsylvania Ave NW","postalCode":"20500","houseNumber":"1600"},"position":{"lat":38.8977,"lng":-77.03655},"scoring":{"queryScore":1.0}}]}`

// newUpstream một server đóng vai OAuth, USPS Addresses và HERE
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"tok","expires_in":3600}`)
	})
	mux.HandleFunc("/city-state", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"ZIPCode":"20500","city":"WASHINGTON","state":"DC"}`)
	})
	mux.HandleFunc("/address", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1600 Pennsylvania Ave NW", r.URL.Query().Get("streetAddress"))
		assert.Equal(t, "WASHINGTON", r.URL.Query().Get("city"))
		_, _ = io.WriteString(w, standardized)
	})
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "here-key", r.URL.Query().Get("apiKey"))
		_, _ = io.WriteString(w, geocoded)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) (*Container, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := newUpstream(t)
	cfg := config.Default()
	cfg.Extractor = config.ExtractorNone
	cfg.USPS.ClientID, cfg.USPS.ClientSecret = "id", "secret"
	cfg.USPS.OAuthURL = srv.URL + "/token"
	cfg.USPS.AddressesBase = srv.URL
	cfg.Here.APIKey = "here-key"
	cfg.Here.GeocodeURL = srv.URL + "/geocode"

	c, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, c.Router()
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBuild_Defaults(t *testing.T) {
	c, _ := newTestRouter(t)

	assert.Nil(t, c.Store)
	assert.Positive(t, c.Counties.Len())
	source, _ := c.Admin.ListCounties()
	assert.Equal(t, CountySourceEmbedded, source)
}

func TestRouter_StandardizeLine(t *testing.T) {
	_, router := newTestRouter(t)

	for _, path := range []string{"/usps/standardize-line", "/api/usps/standardize-line"} {
		w := do(router, http.MethodPost, path, `{"addressLine":"1600 Pennsylvania Ave NW, Washington, DC 20500"}`)
		require.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "LLM disabled", body["aiError"])
		assert.Nil(t, body["standardizationError"])
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestRouter_StandardizeLine_BadRequest(t *testing.T) {
	_, router := newTestRouter(t)

	w := do(router, http.MethodPost, "/usps/standardize-line", `{"addressLine":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"addressLine required"}`, w.Body.String())

	w = do(router, http.MethodPost, "/usps/standardize-line", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Retry(t *testing.T) {
	_, router := newTestRouter(t)

	w := do(router, http.MethodPost, "/usps/retry", `{"streetAddress":"1600 Pennsylvania Ave NW","city":"washington","state":"dc","ZIPCode":"20500"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"city":"WASHINGTON"`)

	w = do(router, http.MethodPost, "/usps/retry", `{"city":"Washington"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"streetAddress required"}`, w.Body.String())
}

func TestRouter_StandardizeLines(t *testing.T) {
	_, router := newTestRouter(t)

	w := do(router, http.MethodPost, "/usps/standardize-lines", `{"addressLines":["1600 Pennsylvania Ave NW, Washington, DC 20500",""]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []struct {
			Status int `json:"status"`
		} `json:"results"`
		Total  int `json:"total"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, http.StatusOK, body.Results[0].Status)
	assert.Equal(t, http.StatusBadRequest, body.Results[1].Status)
	assert.Equal(t, 1, body.Failed)

	w = do(router, http.MethodPost, "/usps/standardize-lines", `{"addressLines":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_GeocodeAndVerify(t *testing.T) {
	_, router := newTestRouter(t)

	w := do(router, http.MethodPost, "/here/geocode-line", `{"addressLine":"1600 Pennsylvania Ave NW, Washington, DC 20500"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verdict":"exact"`)
	assert.Contains(t, w.Body.String(), `"key":"district-of-columbia"`)

	w = do(router, http.MethodPost, "/verify-line", `{"addressLine":"1600 Pennsylvania Ave NW, Washington, DC 20500"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, http.StatusOK, body["uspsStatus"])
	assert.EqualValues(t, http.StatusOK, body["hereStatus"])

	w = do(router, http.MethodPost, "/verify-line", `{"addressLine":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_CountyResolve(t *testing.T) {
	_, router := newTestRouter(t)

	w := do(router, http.MethodGet, "/county/resolve?county=Saint+Louis+County&state=mo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"st-louis-county-mo"`)

	w = do(router, http.MethodGet, "/api/county/resolve?county=Travis&state=TX", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/county/resolve?county=Cook", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Admin(t *testing.T) {
	_, router := newTestRouter(t)

	w := do(router, http.MethodGet, "/v1/admin/counties", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"embedded"`)

	w = do(router, http.MethodPost, "/v1/admin/counties/seed?dry_run=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"validation_passed":true`)
	assert.Contains(t, w.Body.String(), `"dry_run":true`)

	w = do(router, http.MethodPost, "/v1/admin/counties/seed", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(router, http.MethodPost, "/v1/admin/counties/seed", `{"providers":[{"key":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"validation_passed":false`)

	w = do(router, http.MethodPost, "/v1/admin/cache/invalidate", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/v1/admin/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"county_source":"embedded"`)
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	_, router := newTestRouter(t)

	for _, path := range []string{"/health", "/live", "/ready", "/v1/health", "/"} {
		w := do(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := do(router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0))

	l := newLimiter(2.5)
	require.NotNil(t, l)
	assert.Equal(t, 3, l.Burst())
}
