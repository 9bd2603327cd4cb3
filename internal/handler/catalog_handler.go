package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viajemos/service-travel/internal/application"
	"github.com/viajemos/service-travel/pkg/auth"
	"github.com/viajemos/service-travel/pkg/middleware"
	"github.com/viajemos/service-travel/pkg/response"
)

// CatalogHandler handles HTTP requests for the travel package catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers all catalog routes on the given router group.
// Reads are public; writes require the admin role.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	packages := r.Group("/api/v1/packages")
	{
		packages.GET("", h.ListPackages)
		packages.GET("/:id", h.GetPackage)
	}

	admin := r.Group("/api/v1/admin/packages")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.CreatePackage)
		admin.PUT("/:id/publish", h.PublishPackage)
		admin.PUT("/:id/unpublish", h.UnpublishPackage)
	}
}

// ListPackages handles GET /api/v1/packages.
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListPublishedPackages(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPackage handles GET /api/v1/packages/:id. Only published packages are visible.
func (h *CatalogHandler) GetPackage(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid package ID")
		return
	}

	result, err := h.service.GetPublishedPackage(c.Request.Context(), packageID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreatePackage handles POST /api/v1/admin/packages.
func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	var req application.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// PublishPackage handles PUT /api/v1/admin/packages/:id/publish.
func (h *CatalogHandler) PublishPackage(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishPackage handles PUT /api/v1/admin/packages/:id/unpublish.
func (h *CatalogHandler) UnpublishPackage(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *CatalogHandler) setPublished(c *gin.Context, published bool) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid package ID")
		return
	}

	result, err := h.service.SetPublished(c.Request.Context(), packageID, published)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
