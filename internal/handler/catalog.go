package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/model"
	"github.com/andrea360/fitness-center-backend/internal/repository"
)

// CatalogHandler serves the location and service catalog.  Reads are
// public so prospective members can browse; writes are admin-only and
// guarded by route middleware.
type CatalogHandler struct {
	Locations *repository.LocationRepo
	Services  *repository.ServiceRepo
}

func NewCatalogHandler(locations *repository.LocationRepo, services *repository.ServiceRepo) *CatalogHandler {
	if locations == nil || services == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Locations: locations, Services: services}
}

type createLocationReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateLocation handles POST /v1/admin/locations.
func (h *CatalogHandler) CreateLocation(c echo.Context) error {
	var req createLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	loc := &model.Location{Name: req.Name, Address: req.Address}
	if err := h.Locations.Create(c.Request().Context(), loc); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, loc)
}

// ListLocations handles GET /v1/locations.
func (h *CatalogHandler) ListLocations(c echo.Context) error {
	locations, err := h.Locations.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": locations})
}

// GetLocation handles GET /v1/locations/:id.
func (h *CatalogHandler) GetLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	loc, err := h.Locations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, loc)
}

type createServiceReq struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PriceCents      uint32   `json:"price_cents"`
	DurationMinutes int      `json:"duration_minutes"`
	MaxCapacity     int      `json:"max_capacity"`
	LocationIDs     []uint64 `json:"location_ids"`
}

// CreateService handles POST /v1/admin/services.  The service is
// linked to the locations offering it in the same call.
func (h *CatalogHandler) CreateService(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createServiceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch {
	case req.Name == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	case req.DurationMinutes <= 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_minutes must be positive"})
	case req.MaxCapacity <= 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_capacity must be positive"})
	case len(req.LocationIDs) == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_ids is required"})
	}
	createdBy := p.UserID
	svc := &model.Service{
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		MaxCapacity:     req.MaxCapacity,
		IsActive:        true,
		CreatedBy:       &createdBy,
	}
	if err := h.Services.Create(c.Request().Context(), svc, req.LocationIDs); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, svc)
}

// ListServices handles GET /v1/services, optionally filtered with
// ?location_id=.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("location_id"); raw != "" {
		locID, err := queryID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location_id"})
		}
		services, err := h.Services.ListByLocation(ctx, locID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": services})
	}
	services, err := h.Services.ListActive(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": services})
}

// GetService handles GET /v1/services/:id.
func (h *CatalogHandler) GetService(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.Services.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, svc)
}
