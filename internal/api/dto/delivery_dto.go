package dto

import "github.com/careops/as-service/internal/domain"

// TrackingResponse reports a shipment's carrier progress.
type TrackingResponse struct {
	Courier        string                `json:"courier"`
	TrackingNumber string                `json:"trackingNumber"`
	Level          int                   `json:"level"`
	Status         domain.DeliveryStatus `json:"status"`
	Complete       bool                  `json:"complete"`
}
