package domain

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanBecome reports whether an order in status s may move to next.
func (s OrderStatus) CanBecome(next OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type Order struct {
	ID            int64         `db:"id" json:"order_id"`
	UserID        int64         `db:"user_id" json:"user_id"`
	TotalAmount   Money         `db:"total_amount" json:"total_amount"`
	Status        OrderStatus   `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	CreatedAt     string        `db:"created_at" json:"created_at"`
	CustomerEmail string        `db:"customer_email" json:"customer_email"`
	FirstName     string        `db:"first_name" json:"first_name"`
	LastName      string        `db:"last_name" json:"last_name"`
	ItemsCount    int           `db:"items_count" json:"items_count"`
	Items         []OrderItem   `db:"-" json:"items"`
}

// OrderItem carries the unit price captured when the order was placed.
type OrderItem struct {
	OrderID     int64  `db:"order_id" json:"-"`
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Quantity    int    `db:"quantity" json:"quantity"`
	Price       Money  `db:"price_per_unit" json:"price"`
}
