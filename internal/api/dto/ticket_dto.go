package dto

import (
	"time"

	"github.com/careops/as-service/internal/domain"
)

// CreateTicketRequest is the single intake payload.
type CreateTicketRequest struct {
	CompanyName        string                `json:"companyName"`
	CustomerName       string                `json:"customerName"`
	CustomerPhone      string                `json:"customerPhone"`
	CustomerAddress    string                `json:"customerAddress"`
	ProductName        string                `json:"productName"`
	SerialNumber       string                `json:"serialNumber"`
	Description        string                `json:"description"`
	RepairContent      string                `json:"repairContent"`
	TrackingNumber     string                `json:"trackingNumber"`
	Courier            string                `json:"courier"`
	Priority           domain.TicketPriority `json:"priority"`
	ServiceDate        *time.Time            `json:"serviceDate"`
	PickupRequestDate  *time.Time            `json:"pickupRequestDate"`
	ProcessDate        *time.Time            `json:"processDate"`
	ShipDate           *time.Time            `json:"shipDate"`
	PickupCompleteDate *time.Time            `json:"pickupCompleteDate"`
	PurchaseDate       *time.Time            `json:"purchaseDate"`
}

// UpdateStatusRequest changes the ticket lifecycle state.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Comment string              `json:"comment"`
}

// TicketResponse is the API shape of an after-service ticket.
type TicketResponse struct {
	ID                 string                `json:"id"`
	TicketNumber       string                `json:"ticketNumber"`
	CustomerID         string                `json:"customerId"`
	CompanyName        string                `json:"companyName,omitempty"`
	CustomerName       string                `json:"customerName"`
	CustomerPhone      string                `json:"customerPhone"`
	CustomerAddress    string                `json:"customerAddress,omitempty"`
	ProductName        string                `json:"productName,omitempty"`
	SerialNumber       string                `json:"serialNumber,omitempty"`
	Description        string                `json:"description,omitempty"`
	RepairContent      string                `json:"repairContent,omitempty"`
	TrackingNumber     string                `json:"trackingNumber,omitempty"`
	Courier            string                `json:"courier,omitempty"`
	DeliveryStatus     domain.DeliveryStatus `json:"deliveryStatus"`
	Status             domain.TicketStatus   `json:"status"`
	Priority           domain.TicketPriority `json:"priority"`
	ServiceDate        *time.Time            `json:"serviceDate,omitempty"`
	PickupRequestDate  *time.Time            `json:"pickupRequestDate,omitempty"`
	ProcessDate        *time.Time            `json:"processDate,omitempty"`
	ShipDate           *time.Time            `json:"shipDate,omitempty"`
	PickupCompleteDate *time.Time            `json:"pickupCompleteDate,omitempty"`
	PurchaseDate       *time.Time            `json:"purchaseDate,omitempty"`
	ReceivedAt         time.Time             `json:"receivedAt"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(t *domain.ServiceTicket) TicketResponse {
	return TicketResponse{
		ID:                 t.ID,
		TicketNumber:       t.TicketNumber,
		CustomerID:         t.CustomerID,
		CompanyName:        t.CompanyName,
		CustomerName:       t.CustomerName,
		CustomerPhone:      t.CustomerPhone,
		CustomerAddress:    t.CustomerAddress,
		ProductName:        t.ProductName,
		SerialNumber:       t.SerialNumber,
		Description:        t.Description,
		RepairContent:      t.RepairContent,
		TrackingNumber:     t.TrackingNumber,
		Courier:            t.Courier,
		DeliveryStatus:     t.DeliveryStatus,
		Status:             t.Status,
		Priority:           t.Priority,
		ServiceDate:        t.ServiceDate,
		PickupRequestDate:  t.PickupRequestDate,
		ProcessDate:        t.ProcessDate,
		ShipDate:           t.ShipDate,
		PickupCompleteDate: t.PickupCompleteDate,
		PurchaseDate:       t.PurchaseDate,
		ReceivedAt:         t.ReceivedAt,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}
