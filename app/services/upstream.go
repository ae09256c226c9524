package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/here"
)

// TokenProvider nguồn bearer token (usps.TokenCache)
type TokenProvider interface {
	Acquire(ctx context.Context) (string, error)
}

// TokenStatusReporter trạng thái token cho admin stats
type TokenStatusReporter interface {
	Status() (cached bool, expiresAt time.Time)
	Fetches() int64
}

// PostalClient các endpoint USPS Addresses (usps.Client)
type PostalClient interface {
	CityState(ctx context.Context, zipCode, bearer string) (*models.CityState, error)
	Standardize(ctx context.Context, q models.NormalizedQuery, bearer string) (json.RawMessage, error)
}

// Geocoder geocode một dòng địa chỉ (here.Client)
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*here.Response, json.RawMessage, error)
}
