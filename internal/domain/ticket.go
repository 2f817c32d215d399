package domain

import "time"

// TicketStatus enumerates lifecycle states for after-service tickets.
type TicketStatus string

const (
	TicketStatusReceived    TicketStatus = "RECEIVED"
	TicketStatusInProgress  TicketStatus = "IN_PROGRESS"
	TicketStatusUnderRepair TicketStatus = "UNDER_REPAIR"
	TicketStatusExchanged   TicketStatus = "EXCHANGED"
	TicketStatusCompleted   TicketStatus = "COMPLETED"
)

// TicketPriority enumerates handling urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityNormal TicketPriority = "NORMAL"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ServiceTicket is the aggregate for after-service (repair/exchange) requests.
// TicketNumber is the human-facing AS-YYYYMMDD-NNN identifier and is never
// mutated once assigned.
type ServiceTicket struct {
	ID                 string
	TicketNumber       string
	CustomerID         string
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
	DeliveryStatus     DeliveryStatus
	Status             TicketStatus
	Priority           TicketPriority
	ServiceDate        *time.Time
	PickupRequestDate  *time.Time
	ProcessDate        *time.Time
	ShipDate           *time.Time
	PickupCompleteDate *time.Time
	PurchaseDate       *time.Time
	ReceivedAt         time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
