package payloads

// OrderCreatedLine is a single line on an OrderCreatedEvent.
type OrderCreatedLine struct {
	ProductID      string `json:"product_id"`
	WarehouseID    string `json:"warehouse_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// OrderCreatedEvent is emitted when the saga persists an order.
type OrderCreatedEvent struct {
	OrderID     string             `json:"order_id"`
	OrderNumber int64              `json:"order_number"`
	CustomerID  string             `json:"customer_id"`
	CheckoutID  string             `json:"checkout_id"`
	TotalCents  int64              `json:"total_cents"`
	Lines       []OrderCreatedLine `json:"lines"`
}

// StockReleasedEvent is emitted when reserved stock is returned to a warehouse.
type StockReleasedEvent struct {
	CheckoutID  string `json:"checkout_id"`
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
}
