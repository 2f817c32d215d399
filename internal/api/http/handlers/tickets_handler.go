package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/careops/as-service/internal/api/dto"
	"github.com/careops/as-service/internal/auth"
	"github.com/careops/as-service/internal/domain"
	"github.com/careops/as-service/internal/service"
	apperrors "github.com/careops/as-service/pkg/util"
)

// TicketsHandler manages after-service ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/after-service.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
		return apperrors.NewValidationError("customerName and customerPhone required", nil)
	}

	input := service.TicketCreateInput{
		CompanyName:        req.CompanyName,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		CustomerAddress:    req.CustomerAddress,
		ProductName:        req.ProductName,
		SerialNumber:       req.SerialNumber,
		Description:        req.Description,
		RepairContent:      req.RepairContent,
		TrackingNumber:     req.TrackingNumber,
		Courier:            req.Courier,
		Priority:           req.Priority,
		ServiceDate:        req.ServiceDate,
		PickupRequestDate:  req.PickupRequestDate,
		ProcessDate:        req.ProcessDate,
		ShipDate:           req.ShipDate,
		PickupCompleteDate: req.PickupCompleteDate,
		PurchaseDate:       req.PurchaseDate,
	}

	// Partner accounts register tickets under their own company only.
	if principal, ok := auth.PrincipalFromContext(c); ok {
		if scope := principal.PartnerScope(); scope != nil {
			input.CompanyName = *scope
		}
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ListTickets GET /api/after-service.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	if principal, ok := auth.PrincipalFromContext(c); ok {
		filter.PartnerScope = principal.PartnerScope()
	}

	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /api/after-service/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	var scope *string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		scope = principal.PartnerScope()
	}
	ticket, err := h.service.GetTicket(c.UserContext(), scope, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// UpdateStatus PATCH /api/after-service/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	var scope *string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		scope = principal.PartnerScope()
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), scope, c.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" && statusStr != "all" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" && priorityStr != "all" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if customerID := c.Query("customerId"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("startDate")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("endDate")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		if t, err = time.Parse("2006-01-02", val); err != nil {
			return nil
		}
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
