package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viajemos/service-travel/internal/application"
	"github.com/viajemos/service-travel/pkg/auth"
	"github.com/viajemos/service-travel/pkg/middleware"
	"github.com/viajemos/service-travel/pkg/response"
)

// WizardHandler handles HTTP requests for booking wizard sessions.
type WizardHandler struct {
	service *application.WizardService
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(service *application.WizardService) *WizardHandler {
	return &WizardHandler{service: service}
}

// RegisterRoutes registers all wizard routes on the given router group.
func (h *WizardHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	r.POST("/api/v1/packages/:id/wizard", authMW, h.Open)

	wizard := r.Group("/api/v1/wizard")
	wizard.Use(authMW)
	{
		wizard.GET("/:sessionId", h.Get)
		wizard.PUT("/:sessionId/dates", h.SetDates)
		wizard.PUT("/:sessionId/travelers", h.SetTravelers)
		wizard.PUT("/:sessionId/tier", h.SetTier)
		wizard.POST("/:sessionId/advance", h.Advance)
		wizard.POST("/:sessionId/retreat", h.Retreat)
		wizard.POST("/:sessionId/submit", h.Submit)
		wizard.DELETE("/:sessionId", h.Abandon)
	}
}

// Open handles POST /api/v1/packages/:id/wizard.
func (h *WizardHandler) Open(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid package ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.Open(c.Request.Context(), userID, packageID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Get handles GET /api/v1/wizard/:sessionId.
func (h *WizardHandler) Get(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	result, err := h.service.Get(sessionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetDates handles PUT /api/v1/wizard/:sessionId/dates.
func (h *WizardHandler) SetDates(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	var req application.SetDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetDates(sessionID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetTravelers handles PUT /api/v1/wizard/:sessionId/travelers.
func (h *WizardHandler) SetTravelers(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	var req application.SetTravelersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetTravelers(sessionID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetTier handles PUT /api/v1/wizard/:sessionId/tier.
func (h *WizardHandler) SetTier(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	var req application.SetTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetTier(sessionID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Advance handles POST /api/v1/wizard/:sessionId/advance. An incomplete step
// leaves the session unchanged and reports the missing fields.
func (h *WizardHandler) Advance(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	result, err := h.service.Advance(sessionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Retreat handles POST /api/v1/wizard/:sessionId/retreat.
func (h *WizardHandler) Retreat(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	result, err := h.service.Retreat(sessionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Submit handles POST /api/v1/wizard/:sessionId/submit. A failed submission
// leaves the session intact so the traveler can retry.
func (h *WizardHandler) Submit(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	result, err := h.service.Submit(c.Request.Context(), sessionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Abandon handles DELETE /api/v1/wizard/:sessionId.
func (h *WizardHandler) Abandon(c *gin.Context) {
	sessionID, userID, ok := h.sessionAndUser(c)
	if !ok {
		return
	}

	if err := h.service.Abandon(sessionID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *WizardHandler) sessionAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		response.BadRequest(c, "invalid session ID")
		return uuid.Nil, uuid.Nil, false
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}

	return sessionID, userID, true
}
