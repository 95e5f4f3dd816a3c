package services

import (
	"fmt"
	"time"

	"shopdash/internal/domain"
	"shopdash/internal/repos"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

var hundred = decimal.NewFromInt(100)

type AnalyticsService struct {
	Repo *repos.AnalyticsRepo
	Now  func() time.Time
}

func NewAnalyticsService(repo *repos.AnalyticsRepo) *AnalyticsService {
	return &AnalyticsService{Repo: repo, Now: time.Now}
}

// Report aggregates the last days days of orders. The window start is
// computed here and bound as a query argument.
func (s *AnalyticsService) Report(days int) (domain.Analytics, error) {
	if days < 1 {
		return domain.Analytics{}, invalid("timeframe", "must be a positive number of days")
	}
	since := s.Now().AddDate(0, 0, -days)
	out := domain.Analytics{Timeframe: days}

	m, err := s.Repo.Metrics(since)
	if err != nil {
		return out, fmt.Errorf("metrics: %w", err)
	}
	m.TotalRevenue = m.TotalRevenue.Round(2)
	if m.TotalOrders > 0 {
		m.AverageOrderValue = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.TotalOrders))).Round(2)
	}
	out.Metrics = m

	if out.DailyRevenue, err = s.Repo.DailyRevenue(since); err != nil {
		return out, fmt.Errorf("daily revenue: %w", err)
	}
	for i := range out.DailyRevenue {
		out.DailyRevenue[i].Revenue = out.DailyRevenue[i].Revenue.Round(2)
	}
	if out.TopProducts, err = s.Repo.TopProducts(since, topProductsLimit); err != nil {
		return out, fmt.Errorf("top products: %w", err)
	}
	for i := range out.TopProducts {
		out.TopProducts[i].Revenue = out.TopProducts[i].Revenue.Round(2)
	}
	if out.CategoryStats, err = s.Repo.CategoryStats(since); err != nil {
		return out, fmt.Errorf("category stats: %w", err)
	}
	for i := range out.CategoryStats {
		out.CategoryStats[i].Revenue = out.CategoryStats[i].Revenue.Round(2)
	}
	if out.OrderStatusStats, err = s.Repo.StatusStats(since); err != nil {
		return out, fmt.Errorf("status stats: %w", err)
	}
	return out, nil
}

// Overview is the dashboard summary: lifetime totals plus recent activity.
func (s *AnalyticsService) Overview() (domain.Stats, error) {
	now := s.Now()
	monthAgo := now.AddDate(0, 0, -30)
	twoMonthsAgo := now.AddDate(0, 0, -60)
	dayAgo := now.Add(-24 * time.Hour)

	var st domain.Stats
	var err error
	if st.TotalRevenue, err = s.Repo.TotalRevenue(); err != nil {
		return st, fmt.Errorf("total revenue: %w", err)
	}
	st.TotalRevenue = st.TotalRevenue.Round(2)

	cur, err := s.Repo.Revenue(monthAgo, now.Add(time.Second))
	if err != nil {
		return st, fmt.Errorf("revenue: %w", err)
	}
	prev, err := s.Repo.Revenue(twoMonthsAgo, monthAgo)
	if err != nil {
		return st, fmt.Errorf("revenue: %w", err)
	}
	st.RevenueChange = percentChange(prev.Round(2), cur.Round(2))

	counts := []struct {
		dst   *int
		table string
		since time.Time
	}{
		{&st.TotalOrders, "orders", time.Time{}},
		{&st.OrdersLast24h, "orders", dayAgo},
		{&st.TotalCustomers, "customers", time.Time{}},
		{&st.NewCustomers, "customers", monthAgo},
		{&st.TotalProducts, "products", time.Time{}},
		{&st.NewProducts, "products", dayAgo},
	}
	for _, c := range counts {
		if *c.dst, err = s.Repo.CountSince(c.table, c.since); err != nil {
			return st, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return st, nil
}

// percentChange is (cur-prev)/prev in percent, rounded to one decimal.
// Growth from nothing counts as 100%.
func percentChange(prev, cur domain.Money) domain.Money {
	if prev.IsZero() {
		if cur.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(1)
}
