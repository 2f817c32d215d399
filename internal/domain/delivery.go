package domain

// DeliveryStatus enumerates carrier-reported shipment states.
type DeliveryStatus string

const (
	DeliveryStatusPending        DeliveryStatus = "PENDING"
	DeliveryStatusPickedUp       DeliveryStatus = "PICKED_UP"
	DeliveryStatusInTransit      DeliveryStatus = "IN_TRANSIT"
	DeliveryStatusArrived        DeliveryStatus = "ARRIVED"
	DeliveryStatusOutForDelivery DeliveryStatus = "OUT_FOR_DELIVERY"
	DeliveryStatusDelivered      DeliveryStatus = "DELIVERED"
)
