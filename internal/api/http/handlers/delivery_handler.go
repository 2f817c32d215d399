package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careops/as-service/internal/api/dto"
	"github.com/careops/as-service/internal/service"
	apperrors "github.com/careops/as-service/pkg/util"
)

// DeliveryHandler manages carrier tracking endpoints.
type DeliveryHandler struct {
	delivery *service.DeliveryService
}

// NewDeliveryHandler constructs handler.
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: deliveryService}
}

// Track GET /api/delivery/track.
func (h *DeliveryHandler) Track(c *fiber.Ctx) error {
	courier := c.Query("courier")
	trackingNumber := c.Query("trackingNumber")
	if courier == "" || trackingNumber == "" {
		return apperrors.NewValidationError("courier and trackingNumber required", nil)
	}

	info, err := h.delivery.Track(c.UserContext(), courier, trackingNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TrackingResponse{
		Courier:        courier,
		TrackingNumber: trackingNumber,
		Level:          info.Level,
		Status:         service.MapLevel(info.Level),
		Complete:       info.Complete,
	}})
}

// RefreshTicket POST /api/after-service/:id/delivery/refresh.
func (h *DeliveryHandler) RefreshTicket(c *fiber.Ctx) error {
	ticket, err := h.delivery.RefreshTicketDelivery(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}
