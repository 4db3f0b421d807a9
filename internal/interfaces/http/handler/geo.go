package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopmall/backend/internal/domain/address"
)

// GeoHandler exposes the province/district/ward tree the address picker
// walks when resolving a destination
type GeoHandler struct {
	geo address.GeoService
}

// NewGeoHandler creates a new geo handler
func NewGeoHandler(geo address.GeoService) *GeoHandler {
	return &GeoHandler{geo: geo}
}

// RegisterRoutes registers geo lookup routes
func (h *GeoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/geo")
	{
		group.GET("/provinces", h.Provinces)
		group.GET("/provinces/:id/districts", h.Districts)
		group.GET("/districts/:id/wards", h.Wards)
	}
}

// Provinces lists all provinces
func (h *GeoHandler) Provinces(c *gin.Context) {
	provinces, err := h.geo.Provinces(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, provinces)
}

// Districts lists the districts of one province
func (h *GeoHandler) Districts(c *gin.Context) {
	provinceID, ok := h.pathInt(c)
	if !ok {
		return
	}
	districts, err := h.geo.Districts(c.Request.Context(), provinceID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, districts)
}

// Wards lists the wards of one district
func (h *GeoHandler) Wards(c *gin.Context) {
	districtID, ok := h.pathInt(c)
	if !ok {
		return
	}
	wards, err := h.geo.Wards(c.Request.Context(), districtID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, wards)
}

func (h *GeoHandler) pathInt(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondBadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
