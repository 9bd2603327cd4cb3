package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viajemos/service-travel/internal/application"
	"github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/pkg/auth"
	"github.com/viajemos/service-travel/pkg/middleware"
	"github.com/viajemos/service-travel/pkg/response"
)

// AdminHandler handles HTTP requests for operator and admin booking management.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleOperator, auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.GetStats)
		admin.POST("/bookings/:id/confirm", h.ConfirmBooking)
		admin.POST("/bookings/:id/cancel", h.CancelBooking)
		admin.POST("/bookings/:id/payment", h.SetPaymentStatus)

		admin.GET("/cancellation-requests", h.ListCancellationRequests)
		admin.POST("/cancellation-requests/:id/fulfill", h.FulfillCancellation)
		admin.POST("/cancellation-requests/:id/reject", h.RejectCancellation)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	bookings, total, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, bookings, total, page, limit)
}

// GetStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	result, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:id/confirm.
func (h *AdminHandler) ConfirmBooking(c *gin.Context) {
	h.transitionBooking(c, booking.BookingConfirmed)
}

// CancelBooking handles POST /api/v1/admin/bookings/:id/cancel.
func (h *AdminHandler) CancelBooking(c *gin.Context) {
	h.transitionBooking(c, booking.BookingCancelled)
}

func (h *AdminHandler) transitionBooking(c *gin.Context, target booking.BookingStatus) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.TransitionBookingStatus(c.Request.Context(), bookingID, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetPaymentStatus handles POST /api/v1/admin/bookings/:id/payment.
// This is an operator escape hatch; the normal path is the payment event stream.
func (h *AdminHandler) SetPaymentStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	target, err := booking.ParsePaymentStatus(body.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.TransitionPayment(c.Request.Context(), bookingID, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListCancellationRequests handles GET /api/v1/admin/cancellation-requests.
func (h *AdminHandler) ListCancellationRequests(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListCancellationRequests(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// FulfillCancellation handles POST /api/v1/admin/cancellation-requests/:id/fulfill.
// Fulfilling cancels the underlying booking.
func (h *AdminHandler) FulfillCancellation(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cancellation request ID")
		return
	}

	result, err := h.service.FulfillCancellation(c.Request.Context(), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RejectCancellation handles POST /api/v1/admin/cancellation-requests/:id/reject.
func (h *AdminHandler) RejectCancellation(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cancellation request ID")
		return
	}

	result, err := h.service.RejectCancellation(c.Request.Context(), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
