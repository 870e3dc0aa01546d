package entities

import "time"

type FulfillmentType string

const (
	FulfillmentShopify FulfillmentType = "shopify"
	FulfillmentManual  FulfillmentType = "manual"
)

type ShipmentStatus string

const (
	// Manual statuses.
	ShipmentStatusPending ShipmentStatus = "pending"
	ShipmentStatusShipped ShipmentStatus = "shipped"

	// Shopify order statuses mirrored from the storefront feed.
	ShipmentStatusProcessing ShipmentStatus = "processing"
	ShipmentStatusFulfilled  ShipmentStatus = "fulfilled"
	ShipmentStatusInTransit  ShipmentStatus = "in_transit"
	ShipmentStatusDelivered  ShipmentStatus = "delivered"
	ShipmentStatusCanceled   ShipmentStatus = "canceled"
)

// shopifyShippedSet is the fixed set of mirrored order statuses that count
// as the product having left the warehouse.
var shopifyShippedSet = map[ShipmentStatus]bool{
	ShipmentStatusFulfilled: true,
	ShipmentStatusInTransit: true,
	ShipmentStatusDelivered: true,
}

var validShopifyStatuses = map[ShipmentStatus]bool{
	ShipmentStatusPending:    true,
	ShipmentStatusProcessing: true,
	ShipmentStatusFulfilled:  true,
	ShipmentStatusInTransit:  true,
	ShipmentStatusDelivered:  true,
	ShipmentStatusCanceled:   true,
}

func ValidShopifyStatus(status ShipmentStatus) bool {
	return validShopifyStatuses[status]
}

// Shipment is the 1:1 fulfillment record of an accepted match. The authority
// over its status is fixed at creation: either the brand's manual tracking
// entry or the mirrored storefront order, never both.
type Shipment struct {
	ShipmentID      string
	MatchID         string
	OfferID         string
	BrandID         string
	CreatorID       string
	FulfillmentType FulfillmentType
	Status          ShipmentStatus
	Carrier         string
	TrackingNumber  string
	TrackingURL     string
	ShippedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Dispatched reports whether the product is considered shipped. Creator
// cancellation of the match is blocked once this is true.
func (s Shipment) Dispatched() bool {
	switch s.FulfillmentType {
	case FulfillmentManual:
		return s.Status == ShipmentStatusShipped
	case FulfillmentShopify:
		return shopifyShippedSet[s.Status]
	}
	return false
}

// SameTracking reports whether the given manual tracking fields match the
// ones already recorded. Re-marking shipped with identical fields is a no-op.
func (s Shipment) SameTracking(carrier, trackingNumber, trackingURL string) bool {
	return s.Carrier == carrier &&
		s.TrackingNumber == trackingNumber &&
		s.TrackingURL == trackingURL
}
