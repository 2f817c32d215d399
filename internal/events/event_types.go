package events

import (
	"time"

	"github.com/careops/as-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventDeliveryStatusChanged EventType = "delivery_status_changed"
	EventImportCompleted       EventType = "import_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	CompanyName  string                `json:"company_name,omitempty"`
	CustomerName string                `json:"customer_name"`
	Priority     domain.TicketPriority `json:"priority"`
	FromImport   bool                  `json:"from_import"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	Comment      string              `json:"comment,omitempty"`
}

// DeliveryStatusChangedPayload payload.
type DeliveryStatusChangedPayload struct {
	TicketNumber   string                `json:"ticket_number"`
	TrackingNumber string                `json:"tracking_number"`
	OldStatus      domain.DeliveryStatus `json:"old_status"`
	NewStatus      domain.DeliveryStatus `json:"new_status"`
}

// ImportCompletedPayload payload.
type ImportCompletedPayload struct {
	TotalRows    int `json:"total_rows"`
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}
