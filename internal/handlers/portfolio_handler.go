package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hh727w/portfolio-api/internal/models"
	"github.com/hh727w/portfolio-api/internal/services"
	apperrors "github.com/hh727w/portfolio-api/pkg/errors"
)

const (
	catalogCacheControl = "public, max-age=300"
	maxFeaturedLimit    = 10
)

type PortfolioHandler struct {
	service services.CatalogServiceInterface
}

func NewPortfolioHandler(service services.CatalogServiceInterface) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// ListProjects handles GET /api/v1/projects?q=&tag=
func (h *PortfolioHandler) ListProjects(c *gin.Context) {
	var query models.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid query", ParseValidationErrors(err), err)
		return
	}

	resp, err := h.service.ListProjects(c.Request.Context(), query)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, resp)
}

// FeaturedProjects handles GET /api/v1/projects/featured?limit=
func (h *PortfolioHandler) FeaturedProjects(c *gin.Context) {
	limit := services.DefaultFeaturedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxFeaturedLimit {
			respondError(c, http.StatusBadRequest, "limit must be between 1 and 10", err)
			return
		}
		limit = n
	}

	projects, err := h.service.FeaturedProjects(c.Request.Context(), limit)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject handles GET /api/v1/projects/:id, where id is numeric or a slug
func (h *PortfolioHandler) GetProject(c *gin.Context) {
	project, err := h.service.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, project)
}

// ListExperience handles GET /api/v1/experience?q=&tag=
func (h *PortfolioHandler) ListExperience(c *gin.Context) {
	var query models.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid query", ParseValidationErrors(err), err)
		return
	}

	resp, err := h.service.ListExperience(c.Request.Context(), query)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, resp)
}

// GetExperience handles GET /api/v1/experience/:id
func (h *PortfolioHandler) GetExperience(c *gin.Context) {
	entry, err := h.service.GetExperience(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, entry)
}

func (h *PortfolioHandler) respondCatalogError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		respondError(c, http.StatusNotFound, err.Error(), err)
		return
	}
	respondError(c, http.StatusInternalServerError, "Failed to load portfolio catalog", err)
}
