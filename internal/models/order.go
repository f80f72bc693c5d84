package models

import "time"

type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

func (s OrderStatus) Valid() bool {
	return s == OrderStatusOrder || s == OrderStatusCancel
}

// Order is a member's purchase of one or more items.
type Order struct {
	ID        int64
	MemberID  int64
	Status    OrderStatus
	OrderDate time.Time
	Items     []OrderItem
	Audit
}

// OrderItem is one line of an order. OrderPrice is the item's price when
// the order was placed.
type OrderItem struct {
	ID         int64
	OrderID    int64
	ItemID     int64
	OrderPrice int
	Count      int
}

// TotalPrice sums every line of the order.
func (o *Order) TotalPrice() int {
	total := 0
	for _, line := range o.Items {
		total += line.OrderPrice * line.Count
	}
	return total
}

// OrderSummary is an order joined with its member, as listed by searches.
type OrderSummary struct {
	OrderID    int64
	MemberID   int64
	MemberName string
	Status     OrderStatus
	OrderDate  time.Time
}

// OrderSearch holds optional order filters. MemberName is a substring match.
type OrderSearch struct {
	MemberName string
	Status     *OrderStatus
}
