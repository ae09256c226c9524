package controllers

import (
	"net/http"

	"github.com/address-verifier/app/requests"
	"github.com/address-verifier/app/responses"
	"github.com/address-verifier/app/services"
	"github.com/address-verifier/internal/county"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GeocodeController controller cho HERE geocode và tra county
type GeocodeController struct {
	geocode  *services.GeocodeService
	counties *county.Resolver
	logger   *zap.Logger
}

// NewGeocodeController tạo mới GeocodeController
func NewGeocodeController(geocode *services.GeocodeService, counties *county.Resolver, logger *zap.Logger) *GeocodeController {
	return &GeocodeController{
		geocode:  geocode,
		counties: counties,
		logger:   logger,
	}
}

// GeocodeLine geocode một dòng và phân loại mức khớp
func (gc *GeocodeController) GeocodeLine(c *gin.Context) {
	var req requests.StandardizeLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: services.ErrAddressLineRequired.Error()})
		return
	}

	out := gc.geocode.GeocodeLineOutcome(c.Request.Context(), req.AddressLine)
	c.JSON(out.Status, out.Body)
}

// ResolveCounty GET /county/resolve?county=..&state=..
func (gc *GeocodeController) ResolveCounty(c *gin.Context) {
	name := c.Query("county")
	state := c.Query("state")
	if name == "" || state == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "county and state required"})
		return
	}

	rec := gc.counties.Resolve(name, state)
	if rec == nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{Error: "county provider not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
