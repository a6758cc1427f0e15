package domain

import (
	"fmt"
	"strings"
	"time"
)

// LocalizedText carries the four storefront locales. Absent translations
// stay empty strings rather than being omitted.
type LocalizedText struct {
	NL string `firestore:"nl" json:"nl"`
	FR string `firestore:"fr" json:"fr"`
	EN string `firestore:"en" json:"en"`
	TR string `firestore:"tr" json:"tr"`
}

// Category groups products for storefront navigation. Parent references are
// not validated for cycles and deleting a category never cascades to its
// products.
type Category struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	ParentID    string        `json:"parent_id,omitempty"`
	IsActive    bool          `json:"is_active"`
	SortOrder   int           `json:"sort_order"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Unit is the unit-of-sale label attached to a product.
type Unit string

// Recognised units of sale.
const (
	UnitPiece  Unit = "piece"
	UnitSet    Unit = "set"
	UnitBox    Unit = "box"
	UnitBucket Unit = "bucket"
	UnitKg     Unit = "kg"
	UnitMeter  Unit = "meter"
	UnitLiter  Unit = "liter"
	UnitRoll   Unit = "roll"
)

// ParseUnit validates a unit label, rejecting unrecognised values.
func ParseUnit(raw string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(raw))) {
	case UnitPiece:
		return UnitPiece, nil
	case UnitSet:
		return UnitSet, nil
	case UnitBox:
		return UnitBox, nil
	case UnitBucket:
		return UnitBucket, nil
	case UnitKg:
		return UnitKg, nil
	case UnitMeter:
		return UnitMeter, nil
	case UnitLiter:
		return UnitLiter, nil
	case UnitRoll:
		return UnitRoll, nil
	}
	return "", fmt.Errorf("unrecognised unit %q", raw)
}

// Product is a catalog entry. Stock is mutated only through the catalog's
// conditional adjustment and the order workflow; it never goes negative.
type Product struct {
	ID             string            `json:"id"`
	Name           LocalizedText     `json:"name"`
	Description    LocalizedText     `json:"description"`
	Price          float64           `json:"price"`
	Stock          int               `json:"stock"`
	SKU            string            `json:"sku"`
	CategoryID     string            `json:"category_id"`
	IsActive       bool              `json:"is_active"`
	Unit           Unit              `json:"unit"`
	Brand          string            `json:"brand"`
	Specifications map[string]string `json:"specifications"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order fulfilment states. Cancelled is reachable from any non-terminal state.
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a status value, rejecting unrecognised values.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	}
	return "", fmt.Errorf("unrecognised order status %q", raw)
}

// PaymentStatus tracks payment independently of fulfilment status.
type PaymentStatus string

// Payment states.
const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ParsePaymentStatus validates a payment status value.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentStatusPending:
		return PaymentStatusPending, nil
	case PaymentStatusPaid:
		return PaymentStatusPaid, nil
	case PaymentStatusFailed:
		return PaymentStatusFailed, nil
	case PaymentStatusRefunded:
		return PaymentStatusRefunded, nil
	}
	return "", fmt.Errorf("unrecognised payment status %q", raw)
}

// OrderItem is the priced snapshot of a cart line. Name and price are copied
// at order time so later product edits never alter historical orders.
type OrderItem struct {
	ProductID   string        `json:"product_id"`
	ProductName LocalizedText `json:"product_name"`
	Quantity    int           `json:"quantity"`
	Price       float64       `json:"price"`
	Total       float64       `json:"total"`
}

// CustomerInfo is the contact and shipping snapshot captured on an order.
type CustomerInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is a priced, stock-adjusted purchase. Totals are derived once at
// creation and never recomputed.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number"`
	Items         []OrderItem   `json:"items"`
	Customer      CustomerInfo  `json:"customer"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Customer is the per-email order history aggregate. Shipping fields are
// overwritten, not merged, on every repeat order.
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
	CreatedAt   time.Time `json:"created_at"`
}

// DiscountType selects how a discount value is interpreted.
type DiscountType string

// Discount types.
const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// ParseDiscountType validates a discount type value.
func ParseDiscountType(raw string) (DiscountType, error) {
	switch DiscountType(strings.ToLower(strings.TrimSpace(raw))) {
	case DiscountTypePercentage:
		return DiscountTypePercentage, nil
	case DiscountTypeFixed:
		return DiscountTypeFixed, nil
	}
	return "", fmt.Errorf("unrecognised discount type %q", raw)
}

// Discount is a promotional code. Codes are stored uppercase and unique
// case-insensitively. MaxUses of zero means unlimited.
type Discount struct {
	ID             string        `json:"id"`
	Code           string        `json:"code"`
	Name           LocalizedText `json:"name"`
	Description    LocalizedText `json:"description"`
	DiscountType   DiscountType  `json:"discount_type"`
	DiscountValue  float64       `json:"discount_value"`
	MinOrderAmount float64       `json:"min_order_amount"`
	MaxUses        int           `json:"max_uses"`
	UsedCount      int           `json:"used_count"`
	IsActive       bool          `json:"is_active"`
	ValidFrom      time.Time     `json:"valid_from"`
	ValidUntil     *time.Time    `json:"valid_until,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// NormalizeCode canonicalises a discount code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
