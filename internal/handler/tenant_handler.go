package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "rosterup/internal/errors"
	"rosterup/internal/service"
)

// TenantHandler handles tenant directory endpoints.
type TenantHandler struct {
	tenantService service.TenantService
}

// NewTenantHandler creates a new tenant handler.
func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// CreateTenantRequest represents a tenant creation request. Active defaults
// to true when omitted.
type CreateTenantRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Subdomain string `json:"subdomain" validate:"required,min=3,max=50,subdomain"`
	Active    *bool  `json:"active"`
}

// UpdateTenantRequest represents a tenant update request. All fields are
// required; the update overwrites the record.
type UpdateTenantRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Subdomain string `json:"subdomain" validate:"required,min=3,max=50,subdomain"`
	Active    *bool  `json:"active" validate:"required"`
}

// GetAll godoc
// @Summary List tenants
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size (default 20)"
// @Param sort query string false "Sort, e.g. name,desc"
// @Success 200 {object} service.TenantPage
// @Router /tenants [get]
func (h *TenantHandler) GetAll(c echo.Context) error {
	page, size, sort := pageRequest(c)
	result, err := h.tenantService.GetAll(c.Request().Context(), service.PageRequest{Page: page, Size: size, Sort: sort})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary Get a tenant by id
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} model.Tenant
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetByID(c echo.Context) error {
	tenant, err := h.tenantService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// GetBySubdomain godoc
// @Summary Get a tenant by subdomain
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param subdomainName path string true "Subdomain"
// @Success 200 {object} model.Tenant
// @Failure 404 {object} errors.ErrorResponse
// @Router /tenants/subdomains/{subdomainName} [get]
func (h *TenantHandler) GetBySubdomain(c echo.Context) error {
	tenant, err := h.tenantService.GetBySubdomain(c.Request().Context(), c.Param("subdomainName"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// SearchByName godoc
// @Summary Search tenants by normalized name
// @Description Matches LOWER(REPLACE(name, ' ', '-')) against the given name.
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param name query string true "Normalized name, e.g. acme-co"
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size (default 20)"
// @Success 200 {object} service.TenantPage
// @Router /tenants/search/name [get]
func (h *TenantHandler) SearchByName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return respondError(c, &apperrors.ValidationError{Details: []string{"name: query parameter is required"}})
	}
	page, size, sort := pageRequest(c)
	result, err := h.tenantService.GetByName(c.Request().Context(), name, service.PageRequest{Page: page, Size: size, Sort: sort})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// SearchByActive godoc
// @Summary List tenants filtered by active flag
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param active query bool true "Active flag"
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size (default 20)"
// @Success 200 {object} service.TenantPage
// @Router /tenants/search/active [get]
func (h *TenantHandler) SearchByActive(c echo.Context) error {
	active, err := strconv.ParseBool(c.QueryParam("active"))
	if err != nil {
		return respondError(c, &apperrors.ValidationError{Details: []string{"active: must be true or false"}})
	}
	page, size, sort := pageRequest(c)
	result, err := h.tenantService.GetByActive(c.Request().Context(), active, service.PageRequest{Page: page, Size: size, Sort: sort})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Create a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTenantRequest true "Tenant data"
// @Success 201 {object} model.Tenant
// @Failure 400 {object} errors.ErrorResponse
// @Router /tenants [post]
func (h *TenantHandler) Create(c echo.Context) error {
	var req CreateTenantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	tenant, err := h.tenantService.Create(c.Request().Context(), req.Name, req.Subdomain, req.Active)
	if err != nil {
		return respondError(c, err)
	}

	locationHeader(c, tenant.ID)
	return c.JSON(http.StatusCreated, tenant)
}

// Update godoc
// @Summary Update a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param request body UpdateTenantRequest true "Tenant data"
// @Success 200 {object} model.Tenant
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tenants/{id} [put]
func (h *TenantHandler) Update(c echo.Context) error {
	var req UpdateTenantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	tenant, err := h.tenantService.Update(c.Request().Context(), c.Param("id"), req.Name, req.Subdomain, *req.Active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// Delete godoc
// @Summary Delete a tenant
// @Tags tenants
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tenants/{id} [delete]
func (h *TenantHandler) Delete(c echo.Context) error {
	if err := h.tenantService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
