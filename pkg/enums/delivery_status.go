package enums

import "fmt"

// DeliveryStatus tracks a delivery from the dark store to the retailer.
type DeliveryStatus string

const (
	DeliveryStatusPreparing DeliveryStatus = "Preparing"
	DeliveryStatusPickedUp  DeliveryStatus = "Picked Up"
	DeliveryStatusEnRoute   DeliveryStatus = "En Route"
	DeliveryStatusInTransit DeliveryStatus = "In Transit"
	DeliveryStatusDelivered DeliveryStatus = "Delivered"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPreparing,
	DeliveryStatusPickedUp,
	DeliveryStatusEnRoute,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
}

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActive reports whether the delivery is on the road.
func (s DeliveryStatus) IsActive() bool {
	switch s {
	case DeliveryStatusPickedUp, DeliveryStatusEnRoute, DeliveryStatusInTransit:
		return true
	default:
		return false
	}
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
