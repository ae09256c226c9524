package usps

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/address-verifier/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func TestClient_Standardize_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "1600 Pennsylvania Ave NW", r.URL.Query().Get("streetAddress"))
		assert.Equal(t, "WASHINGTON", r.URL.Query().Get("city"))
		assert.Equal(t, "DC", r.URL.Query().Get("state"))
		assert.Equal(t, "20500", r.URL.Query().Get("ZIPCode"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"address":{"streetAddress":"1600 PENNSYLVANIA AVE NW","ZIPCode":"20500"},"additionalInfo":{"DPVConfirmation":"Y","carrierRoute":"C000","business":"Y","vacant":"N"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/", nil, zap.NewNop())
	body, err := c.Standardize(context.Background(), models.NormalizedQuery{
		StreetAddress: "1600 Pennsylvania Ave NW",
		City:          "WASHINGTON",
		State:         "DC",
		ZIPCode:       "20500",
	}, "tok")

	require.NoError(t, err)
	assert.Contains(t, string(body), `"DPVConfirmation":"Y"`)
	assert.Contains(t, string(body), `"carrierRoute":"C000"`)
}

func TestClient_Standardize_SendsEmptyParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, key := range []string{"streetAddress", "city", "state", "ZIPCode"} {
			_, present := q[key]
			assert.True(t, present, "missing param %s", key)
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, nil, zap.NewNop())
	_, err := c.Standardize(context.Background(), models.NormalizedQuery{StreetAddress: "1 Main St"}, "tok")
	require.NoError(t, err)
}

func TestClient_Standardize_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"unavailable"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, nil, zap.NewNop())
	_, err := c.Standardize(context.Background(), models.NormalizedQuery{StreetAddress: "1 Main St"}, "tok")

	var stdErr *StandardizationError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, models.StageAddress, stdErr.Stage)
	assert.Equal(t, http.StatusServiceUnavailable, stdErr.Status)
	assert.Equal(t, `{"error":"unavailable"}`, stdErr.Body)
	assert.Contains(t, stdErr.URL, "/address?")

	se := stdErr.StageError()
	assert.Equal(t, http.StatusServiceUnavailable, se.HTTPStatus())
}

func TestClient_Standardize_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, nil, zap.NewNop())
	_, err := c.Standardize(context.Background(), models.NormalizedQuery{StreetAddress: "1 Main St"}, "tok")

	var stdErr *StandardizationError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, 0, stdErr.Status)
	assert.Equal(t, 500, stdErr.StageError().HTTPStatus())
}

func TestClient_Standardize_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, nil, zap.NewNop())
	body, err := c.Standardize(context.Background(), models.NormalizedQuery{StreetAddress: "1 Main St"}, "tok")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(body))
}

func TestClient_CityState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/city-state", r.URL.Path)
		assert.Equal(t, "20500", r.URL.Query().Get("ZIPCode"))
		_, _ = io.WriteString(w, `{"ZIPCode":"20500","city":"WASHINGTON","state":"DC"}`)
	}))
	defer srv.Close()

	limiter := rate.NewLimiter(rate.Inf, 1)
	c := NewClient(srv.Client(), srv.URL, limiter, zap.NewNop())
	cs, err := c.CityState(context.Background(), "20500", "tok")

	require.NoError(t, err)
	assert.Equal(t, "WASHINGTON", cs.City)
	assert.Equal(t, "DC", cs.State)
}

func TestClient_CityState_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, nil, zap.NewNop())
	_, err := c.CityState(context.Background(), "00000", "tok")

	var stdErr *StandardizationError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, models.StageCityState, stdErr.Stage)
	assert.Equal(t, http.StatusNotFound, stdErr.Status)
}
