package models

// Item is a stocked product. Placing an order takes from StockQuantity and
// cancelling it gives the count back.
type Item struct {
	ID            int64
	Name          string
	Price         int
	StockQuantity int
	Audit
}
