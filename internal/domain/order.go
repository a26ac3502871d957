package domain

import "time"

// OrderStatus is the kitchen progress of an order.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered
}

func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus is the outcome of the payment flow, set once at creation.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// ValidPaymentStatus reports whether s is one of the known payment outcomes.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Order is the aggregate root of a placed bill. Items keep insertion order;
// prices are snapshotted at creation and never recomputed.
type Order struct {
	ID             string        `json:"id"`
	BillNumber     string        `json:"billNumber"`
	LookupToken    string        `json:"-"`
	Items          []OrderItem   `json:"items"`
	TotalAmount    int64         `json:"totalAmount"`
	CollectionTime string        `json:"collectionTime,omitempty"`
	PaymentMethod  string        `json:"paymentMethod,omitempty"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentID      string        `json:"paymentId,omitempty"`
	OrderStatus    OrderStatus   `json:"orderStatus"`
	DeviceID       string        `json:"-"`
	QRVisibleAt    time.Time     `json:"qrVisibleAt"`
	DeliveredAt    *time.Time    `json:"deliveredAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// AllItemsDelivered reports whether every line item has been handed over.
func (o Order) AllItemsDelivered() bool {
	for _, it := range o.Items {
		if !it.Delivered {
			return false
		}
	}
	return true
}

// OrderItem is owned exclusively by its order. Delivered is monotonic:
// once true it never reverts.
type OrderItem struct {
	ItemID          string     `json:"itemId,omitempty"`
	Name            string     `json:"name"`
	Quantity        int        `json:"quantity"`
	UnitPrice       int64      `json:"unitPrice"`
	OriginalPrice   int64      `json:"originalPrice"`
	DiscountPercent int        `json:"discountPercent"`
	Delivered       bool       `json:"delivered"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
}
