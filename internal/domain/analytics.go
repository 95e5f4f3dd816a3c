package domain

type Metrics struct {
	TotalOrders       int   `db:"total_orders" json:"total_orders"`
	UniqueCustomers   int   `db:"unique_customers" json:"unique_customers"`
	TotalRevenue      Money `db:"total_revenue" json:"total_revenue"`
	AverageOrderValue Money `db:"-" json:"average_order_value"`
}

type DailyRevenue struct {
	Date    string `db:"date" json:"date"`
	Revenue Money  `db:"revenue" json:"revenue"`
	Orders  int    `db:"orders" json:"orders"`
}

type TopProduct struct {
	ProductName string `db:"product_name" json:"product_name"`
	UnitsSold   int    `db:"units_sold" json:"units_sold"`
	Revenue     Money  `db:"revenue" json:"revenue"`
}

type CategoryStat struct {
	CategoryName string `db:"category_name" json:"category_name"`
	OrdersCount  int    `db:"orders_count" json:"orders_count"`
	Revenue      Money  `db:"revenue" json:"revenue"`
}

type StatusStat struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type Analytics struct {
	Timeframe        int            `json:"timeframe"`
	Metrics          Metrics        `json:"metrics"`
	DailyRevenue     []DailyRevenue `json:"dailyRevenue"`
	TopProducts      []TopProduct   `json:"topProducts"`
	CategoryStats    []CategoryStat `json:"categoryStats"`
	OrderStatusStats []StatusStat   `json:"orderStatusStats"`
}

// Stats is the dashboard overview.
type Stats struct {
	TotalRevenue   Money `json:"total_revenue"`
	RevenueChange  Money `json:"revenue_change_pct"`
	TotalOrders    int   `json:"total_orders"`
	OrdersLast24h  int   `json:"orders_last_24h"`
	TotalCustomers int   `json:"total_customers"`
	NewCustomers   int   `json:"new_customers_30d"`
	TotalProducts  int   `json:"total_products"`
	NewProducts    int   `json:"new_products_24h"`
}
