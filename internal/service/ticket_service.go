package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careops/as-service/internal/domain"
	"github.com/careops/as-service/internal/events"
	"github.com/careops/as-service/internal/repository"
	apperrors "github.com/careops/as-service/pkg/util"
)

// TicketService coordinates single after-service intake and lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	resolver   *CustomerResolver
	allocator  *TicketNumberAllocator
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	Resolver     *CustomerResolver
	Allocator    *TicketNumberAllocator
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TicketCreateInput describes a single intake payload.
type TicketCreateInput struct {
	CompanyName        string
	CustomerName       string
	CustomerPhone      string
	CustomerAddress    string
	ProductName        string
	SerialNumber       string
	Description        string
	RepairContent      string
	TrackingNumber     string
	Courier            string
	Priority           domain.TicketPriority
	ServiceDate        *time.Time
	PickupRequestDate  *time.Time
	ProcessDate        *time.Time
	ShipDate           *time.Time
	PickupCompleteDate *time.Time
	PurchaseDate       *time.Time
}

// TicketListFilter describes listing filters; PartnerScope restricts
// results to one company for partner accounts.
type TicketListFilter struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	CustomerID   *string
	PartnerScope *string
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		customers:  deps.CustomerRepo,
		resolver:   deps.Resolver,
		allocator:  deps.Allocator,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateTicket registers one after-service request. The ticket number
// prefix uses the intake moment's calendar day, not the supplied
// service date.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.ServiceTicket, error) {
	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	if name == "" || phone == "" {
		return nil, apperrors.NewValidationError("customer name and phone required", nil)
	}

	customer, err := s.resolver.Resolve(ctx, name, phone, input.CustomerAddress)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ticketNumber, err := s.allocator.Next(ctx, now)
	if err != nil {
		return nil, err
	}

	serviceDate := input.ServiceDate
	if serviceDate == nil {
		serviceDate = &now
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}

	ticket := &domain.ServiceTicket{
		TicketNumber:       ticketNumber,
		CustomerID:         customer.ID,
		CompanyName:        strings.TrimSpace(input.CompanyName),
		CustomerName:       name,
		CustomerPhone:      phone,
		CustomerAddress:    strings.TrimSpace(input.CustomerAddress),
		ProductName:        strings.TrimSpace(input.ProductName),
		SerialNumber:       strings.TrimSpace(input.SerialNumber),
		Description:        strings.TrimSpace(input.Description),
		RepairContent:      strings.TrimSpace(input.RepairContent),
		TrackingNumber:     strings.TrimSpace(input.TrackingNumber),
		Courier:            strings.TrimSpace(input.Courier),
		DeliveryStatus:     domain.DeliveryStatusPending,
		Status:             domain.TicketStatusReceived,
		Priority:           priority,
		ServiceDate:        serviceDate,
		PickupRequestDate:  input.PickupRequestDate,
		ProcessDate:        input.ProcessDate,
		ShipDate:           input.ShipDate,
		PickupCompleteDate: input.PickupCompleteDate,
		PurchaseDate:       input.PurchaseDate,
		ReceivedAt:         now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			CompanyName:  ticket.CompanyName,
			CustomerName: ticket.CustomerName,
			Priority:     ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.ServiceTicket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		CustomerID:  filter.CustomerID,
		CompanyName: filter.PartnerScope,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicket fetches one ticket, enforcing partner scope.
func (s *TicketService) GetTicket(ctx context.Context, partnerScope *string, id string) (*domain.ServiceTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partnerScope != nil && ticket.CompanyName != *partnerScope {
		return nil, apperrors.NewForbidden("ticket belongs to another partner")
	}
	return ticket, nil
}

// UpdateStatus transitions a ticket through its lifecycle.
func (s *TicketService) UpdateStatus(ctx context.Context, partnerScope *string, id string, newStatus domain.TicketStatus, comment string) (*domain.ServiceTicket, error) {
	ticket, err := s.GetTicket(ctx, partnerScope, id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: ticket.TicketNumber,
			OldStatus:    oldStatus,
			NewStatus:    newStatus,
			Comment:      comment,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusReceived:    {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress:  {domain.TicketStatusUnderRepair, domain.TicketStatusExchanged},
	domain.TicketStatusUnderRepair: {domain.TicketStatusCompleted},
	domain.TicketStatusExchanged:   {domain.TicketStatusCompleted},
	domain.TicketStatusCompleted:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
