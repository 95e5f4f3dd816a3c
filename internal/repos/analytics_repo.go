package repos

import (
	"time"

	"shopdash/internal/domain"

	"github.com/jmoiron/sqlx"
)

// AnalyticsRepo runs the aggregate queries behind the analytics and stats
// screens. Every window start is bound as a parameter.
type AnalyticsRepo struct {
	db *sqlx.DB
	d  dialect
}

func NewAnalyticsRepo(db *sqlx.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db, d: dialectOf(db)} }

func (r *AnalyticsRepo) Metrics(since time.Time) (domain.Metrics, error) {
	var m domain.Metrics
	err := r.db.Get(&m, r.db.Rebind(`
		SELECT
		  COUNT(*) AS total_orders,
		  COUNT(DISTINCT user_id) AS unique_customers,
		  COALESCE(SUM(total_amount), 0) AS total_revenue
		FROM orders
		WHERE created_at >= ?
	`), r.d.timeArg(since))
	return m, err
}

func (r *AnalyticsRepo) DailyRevenue(since time.Time) ([]domain.DailyRevenue, error) {
	day := r.d.day("created_at")
	out := []domain.DailyRevenue{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT
		  `+day+` AS date,
		  COALESCE(SUM(total_amount), 0) AS revenue,
		  COUNT(*) AS orders
		FROM orders
		WHERE created_at >= ?
		GROUP BY `+day+`
		ORDER BY date
	`), r.d.timeArg(since))
	return out, err
}

func (r *AnalyticsRepo) TopProducts(since time.Time, limit int) ([]domain.TopProduct, error) {
	out := []domain.TopProduct{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT
		  p.name AS product_name,
		  SUM(oi.quantity) AS units_sold,
		  SUM(oi.quantity * oi.price_per_unit) AS revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= ?
		GROUP BY p.id, p.name
		ORDER BY units_sold DESC, p.name
		LIMIT ?
	`), r.d.timeArg(since), limit)
	return out, err
}

func (r *AnalyticsRepo) CategoryStats(since time.Time) ([]domain.CategoryStat, error) {
	out := []domain.CategoryStat{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT
		  c.name AS category_name,
		  COUNT(DISTINCT o.id) AS orders_count,
		  SUM(oi.quantity * oi.price_per_unit) AS revenue
		FROM categories c
		JOIN products p ON p.category_id = c.id
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= ?
		GROUP BY c.id, c.name
		ORDER BY revenue DESC, c.name
	`), r.d.timeArg(since))
	return out, err
}

func (r *AnalyticsRepo) StatusStats(since time.Time) ([]domain.StatusStat, error) {
	out := []domain.StatusStat{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT status, COUNT(*) AS count
		FROM orders
		WHERE created_at >= ?
		GROUP BY status
		ORDER BY count DESC, status
	`), r.d.timeArg(since))
	return out, err
}

// Revenue sums order totals created in [from, to).
func (r *AnalyticsRepo) Revenue(from, to time.Time) (domain.Money, error) {
	var total domain.Money
	err := r.db.Get(&total, r.db.Rebind(`
		SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE created_at >= ? AND created_at < ?
	`), r.d.timeArg(from), r.d.timeArg(to))
	return total, err
}

func (r *AnalyticsRepo) TotalRevenue() (domain.Money, error) {
	var total domain.Money
	err := r.db.Get(&total, `SELECT COALESCE(SUM(total_amount), 0) FROM orders`)
	return total, err
}

// CountSince counts rows of table created at or after since; a zero since
// counts everything. table is one of a fixed set of names.
func (r *AnalyticsRepo) CountSince(table string, since time.Time) (int, error) {
	var where string
	switch table {
	case "orders", "products":
	case "customers":
		table, where = "users", " AND role = 'user'"
	default:
		panic("repos: CountSince on unknown table " + table)
	}
	var n int
	if since.IsZero() {
		err := r.db.Get(&n, `SELECT COUNT(*) FROM `+table+` WHERE 1=1`+where)
		return n, err
	}
	err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE created_at >= ?`+where), r.d.timeArg(since))
	return n, err
}
