package repos

import (
	"database/sql"
	"time"

	"shopdash/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderSelect = `
  SELECT
    o.id, o.user_id, o.total_amount, o.status, o.payment_status, o.created_at,
    u.email AS customer_email, u.first_name, u.last_name,
    (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS items_count
  FROM orders o
  JOIN users u ON u.id = o.user_id`

func statusFilter(status string) (string, []any) {
	if status == "" {
		return "", nil
	}
	return ` WHERE o.status = ?`, []any{status}
}

// List returns one page of orders, newest first, optionally filtered by
// status, with line items attached.
func (r *OrderRepo) List(status string, limit, offset int) ([]domain.Order, error) {
	where, args := statusFilter(status)
	out := []domain.Order{}
	err := r.db.Select(&out, r.db.Rebind(orderSelect+where+`
  ORDER BY o.created_at DESC, o.id DESC
  LIMIT ? OFFSET ?`), append(args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	return out, r.attachItems(out)
}

func (r *OrderRepo) Count(status string) (int, error) {
	where, args := statusFilter(status)
	var n int
	err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM orders o JOIN users u ON u.id = o.user_id`+where), args...)
	return n, err
}

func (r *OrderRepo) Get(id int64) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, r.db.Rebind(orderSelect+` WHERE o.id = ?`), id); err != nil {
		return domain.Order{}, err
	}
	list := []domain.Order{o}
	if err := r.attachItems(list); err != nil {
		return domain.Order{}, err
	}
	return list[0], nil
}

func (r *OrderRepo) attachItems(orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	query, args, err := sqlx.In(`
		SELECT oi.order_id, oi.product_id, p.name AS product_name, oi.quantity, oi.price_per_unit
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id IN (?)
		ORDER BY oi.order_id, p.name`, ids)
	if err != nil {
		return err
	}
	var rows []domain.OrderItem
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return err
	}
	byOrder := make(map[int64][]domain.OrderItem, len(orders))
	for _, it := range rows {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return nil
}

// UpdateStatus moves an order from one status to another. The WHERE clause
// re-checks the current status so a concurrent change is not overwritten;
// in that case, or when the order is missing, sql.ErrNoRows comes back.
func (r *OrderRepo) UpdateStatus(id int64, from, to domain.OrderStatus) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE orders SET status = ? WHERE id = ? AND status = ?`), string(to), id, string(from))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// NewOrderLine is one product of an order being recorded.
type NewOrderLine struct {
	ProductID int64
	Quantity  int
	UnitPrice domain.Money
}

// Create records an order with its items in one transaction. The total is
// the sum of quantity*unit price. Used by the seeder and tests; the
// dashboard itself never places orders.
func (r *OrderRepo) Create(userID int64, status domain.OrderStatus, payment domain.PaymentStatus, createdAt time.Time, lines []NewOrderLine) (int64, error) {
	total := domain.Money{}
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.Get(&id, tx.Rebind(`
		INSERT INTO orders(user_id, total_amount, status, payment_status, created_at)
		VALUES(?, ?, ?, ?, ?)
		RETURNING id
	`), userID, total, string(status), string(payment), dialectOf(r.db).timeArg(createdAt)); err != nil {
		return 0, err
	}
	for _, l := range lines {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO order_items(order_id, product_id, quantity, price_per_unit)
			VALUES(?, ?, ?, ?)
		`), id, l.ProductID, l.Quantity, l.UnitPrice); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}
