package services_test

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"shopdash/internal/auth"
	"shopdash/internal/domain"
	"shopdash/internal/repos"
	"shopdash/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, repos.SeedIfEmpty(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPagingInfo(t *testing.T) {
	cases := []struct {
		page, limit, total int
		wantPage, wantLim  int
		wantPages, wantOff int
	}{
		{0, 0, 0, 1, 10, 0, 0},
		{2, 10, 25, 2, 10, 3, 10},
		{3, 500, 250, 3, 100, 3, 200},
		{1, 7, 7, 1, 7, 1, 0},
		{-4, -1, 11, 1, 10, 2, 0},
	}
	for _, c := range cases {
		p := services.NewPaging(c.page, c.limit)
		info := p.Info(c.total)
		assert.Equal(t, c.wantPage, info.Page)
		assert.Equal(t, c.wantLim, info.Limit)
		assert.Equal(t, c.wantPages, info.TotalPages, "total=%d limit=%d", c.total, c.limit)
		assert.Equal(t, c.wantOff, p.Offset())
	}
}

func TestLoginIssuesTokenForUser(t *testing.T) {
	db := memdb(t)
	tokens := auth.NewTokens("test-secret", time.Hour)
	svc := services.NewAuthService(repos.NewUserRepo(db), tokens)

	u, tok, err := svc.Login("Admin@Shopdash.test", "Passw0rd!")
	require.NoError(t, err)
	claims, err := svc.Identify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	me, err := svc.Me(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin@shopdash.test", me.Email)

	_, _, err = svc.Login("admin@shopdash.test", "nope")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = svc.Login("ghost@shopdash.test", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	_, err = svc.Me("garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMeReportsDeletedUser(t *testing.T) {
	db := memdb(t)
	tokens := auth.NewTokens("test-secret", time.Hour)
	svc := services.NewAuthService(repos.NewUserRepo(db), tokens)

	tok, err := tokens.Issue(&domain.User{ID: 9999, Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Me(tok)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateProductValidation(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))
	missing := int64(999)

	bad := []domain.ProductInput{
		{Name: "  ", Price: decimal.NewFromInt(1)},
		{Name: "x", Price: decimal.NewFromInt(-1)},
		{Name: "x", Price: decimal.NewFromInt(1), StockQuantity: -2},
		{Name: "x", Price: decimal.NewFromInt(1), Images: []string{"javascript:alert(1)"}},
		{Name: "x", Price: decimal.NewFromInt(1), CategoryID: &missing},
	}
	for i, in := range bad {
		_, err := svc.CreateProduct(in)
		assert.True(t, services.IsValidation(err), "case %d: %v", i, err)
	}

	id, err := svc.CreateProduct(domain.ProductInput{
		Name: " Desk Lamp ", Price: decimal.RequireFromString("24.999"), StockQuantity: 4,
		Images: []string{"https://cdn.example.com/lamp.jpg", "/media/lamp-2.jpg"},
	})
	require.NoError(t, err)
	p, err := svc.GetProduct(id)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", p.Name)
	assert.Equal(t, "25", p.Price.String())
	require.Len(t, p.Images, 2)
	assert.True(t, p.Images[0].IsPrimary)
	assert.False(t, p.Images[1].IsPrimary)

	_, err = svc.GetProduct(123456)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(123456), services.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateProduct(123456, domain.ProductInput{Name: "x"}), services.ErrNotFound)
}

func TestListProductsPages(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))
	for i := 0; i < 17; i++ {
		_, err := svc.CreateProduct(domain.ProductInput{Name: "Filler", Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	page, err := svc.ListProducts("", services.NewPaging(2, 10))
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Products, 10)

	last, err := svc.ListProducts("", services.NewPaging(3, 10))
	require.NoError(t, err)
	assert.Len(t, last.Products, 5)

	filtered, err := svc.ListProducts("filler", services.NewPaging(1, 100))
	require.NoError(t, err)
	assert.Equal(t, 17, filtered.Total)
	assert.Equal(t, 1, filtered.TotalPages)
}

func TestListCategoriesOnlyActive(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))
	cats, err := svc.ListCategories()
	require.NoError(t, err)
	require.Len(t, cats, 4)
	for _, c := range cats {
		assert.True(t, c.IsActive)
		assert.NotEqual(t, "Clearance", c.Name)
	}
}

func TestExportProducts(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))

	var buf bytes.Buffer
	n, err := svc.ExportProducts(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := book.Sheet["Products"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 9)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[1].Value)
	assert.Equal(t, "Wireless Headphones", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "129.99", sheet.Rows[1].Cells[3].Value)
	assert.Equal(t, "Electronics", sheet.Rows[1].Cells[5].Value)
}

func TestOrderStatusTransitions(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(repos.NewOrderRepo(db))

	pending, err := svc.List("pending", services.NewPaging(1, 10))
	require.NoError(t, err)
	require.Len(t, pending.Orders, 1)
	o := pending.Orders[0]
	assert.Equal(t, "134.97", o.TotalAmount.StringFixed(2))
	assert.Equal(t, 1, o.ItemsCount)

	_, err = svc.UpdateStatus(o.ID, domain.OrderDelivered)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.True(t, services.IsValidation(err))

	_, err = svc.UpdateStatus(o.ID, "lost")
	assert.True(t, services.IsValidation(err))

	for _, next := range []domain.OrderStatus{domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered} {
		got, err := svc.UpdateStatus(o.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
		assert.Equal(t, "44.99", got.Items[0].Price.StringFixed(2))
	}
	_, err = svc.UpdateStatus(o.ID, domain.OrderCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = svc.UpdateStatus(424242, domain.OrderProcessing)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.List("bogus", services.NewPaging(1, 10))
	assert.True(t, services.IsValidation(err))
}

func TestCreateCustomer(t *testing.T) {
	db := memdb(t)
	svc := services.NewCustomerService(repos.NewUserRepo(db))

	in := services.NewCustomer{FirstName: "Dana", LastName: "Scully", Email: "dana@example.com", Password: "Tru7h!sOut"}
	c, err := svc.Create(in)
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "dana@example.com", c.Email)
	assert.Equal(t, 0, c.TotalOrders)

	in.Email = "DANA@example.com"
	_, err = svc.Create(in)
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.Create(services.NewCustomer{FirstName: "No", Email: "x@example.com", Password: "Tru7h!sOut"})
	assert.True(t, services.IsValidation(err))
	_, err = svc.Create(services.NewCustomer{FirstName: "A", LastName: "B", Email: "y@example.com", Password: "short"})
	assert.True(t, services.IsValidation(err))

	page, err := svc.List("scully", services.NewPaging(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Customers, 1)
	assert.True(t, page.Customers[0].TotalSpent.IsZero())
	assert.Nil(t, page.Customers[0].LastOrderDate)
}

func TestListCustomersByTotalSpent(t *testing.T) {
	db := memdb(t)
	svc := services.NewCustomerService(repos.NewUserRepo(db))
	page, err := svc.List("", services.NewPaging(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Customers, 2)
	assert.Equal(t, "432.96", page.Customers[0].TotalSpent.StringFixed(2))
	assert.Equal(t, "247.99", page.Customers[1].TotalSpent.StringFixed(2))
}

func TestSettingsRoundTrip(t *testing.T) {
	db := memdb(t)
	svc := services.NewSettingsService(repos.NewSettingsRepo(db))

	all, err := svc.Get("")
	require.NoError(t, err)
	assert.Contains(t, all, "store")
	assert.Contains(t, all, "shipping")
	assert.JSONEq(t, `"USD"`, string(all["store"]["currency"]))
	assert.JSONEq(t, `true`, string(all["shipping"]["internationalShipping"]))

	err = svc.Update("store", map[string]json.RawMessage{
		"currency": json.RawMessage(`"EUR"`),
		"taxRate":  json.RawMessage(`{ "standard" : 0.2 }`),
	})
	require.NoError(t, err)

	store, err := svc.Get("store")
	require.NoError(t, err)
	require.Len(t, store, 1)
	assert.Equal(t, `"EUR"`, string(store["store"]["currency"]))
	assert.Equal(t, `{"standard":0.2}`, string(store["store"]["taxRate"]))
}

func TestSettingsUpdateRejectsBadInput(t *testing.T) {
	db := memdb(t)
	svc := services.NewSettingsService(repos.NewSettingsRepo(db))

	before, err := svc.Get("store")
	require.NoError(t, err)

	cases := []struct {
		category string
		values   map[string]json.RawMessage
	}{
		{"", map[string]json.RawMessage{"a": json.RawMessage(`1`)}},
		{"store", nil},
		{"Store!", map[string]json.RawMessage{"a": json.RawMessage(`1`)}},
		{"store", map[string]json.RawMessage{"currency": json.RawMessage(`"EUR"`), "bad key": json.RawMessage(`1`)}},
		{"store", map[string]json.RawMessage{"currency": json.RawMessage(`"EUR"`), "broken": json.RawMessage(`{`)}},
	}
	for i, c := range cases {
		err := svc.Update(c.category, c.values)
		assert.True(t, services.IsValidation(err), "case %d: %v", i, err)
	}

	after, err := svc.Get("store")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAnalyticsReport(t *testing.T) {
	db := memdb(t)
	svc := services.NewAnalyticsService(repos.NewAnalyticsRepo(db))

	r, err := svc.Report(30)
	require.NoError(t, err)
	assert.Equal(t, 30, r.Timeframe)
	assert.Equal(t, 5, r.Metrics.TotalOrders)
	assert.Equal(t, 3, r.Metrics.UniqueCustomers)
	assert.Equal(t, "749.95", r.Metrics.TotalRevenue.StringFixed(2))
	assert.Equal(t, "149.99", r.Metrics.AverageOrderValue.StringFixed(2))
	require.NotEmpty(t, r.TopProducts)
	assert.LessOrEqual(t, len(r.TopProducts), 5)
	assert.Equal(t, "The Pragmatic Programmer", r.TopProducts[0].ProductName)
	assert.Len(t, r.OrderStatusStats, 5)
	assert.NotEmpty(t, r.DailyRevenue)
	assert.NotEmpty(t, r.CategoryStats)

	wide, err := svc.Report(365)
	require.NoError(t, err)
	assert.Equal(t, 6, wide.Metrics.TotalOrders)
	assert.Equal(t, "838.95", wide.Metrics.TotalRevenue.StringFixed(2))

	_, err = svc.Report(0)
	assert.True(t, services.IsValidation(err))
}

func TestAnalyticsReportEmptyWindow(t *testing.T) {
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	svc := services.NewAnalyticsService(repos.NewAnalyticsRepo(db))

	r, err := svc.Report(7)
	require.NoError(t, err)
	assert.Zero(t, r.Metrics.TotalOrders)
	assert.True(t, r.Metrics.AverageOrderValue.IsZero())
	assert.Empty(t, r.TopProducts)
	assert.NotNil(t, r.DailyRevenue)
}

func TestOverview(t *testing.T) {
	db := memdb(t)
	svc := services.NewAnalyticsService(repos.NewAnalyticsRepo(db))

	st, err := svc.Overview()
	require.NoError(t, err)
	assert.Equal(t, "838.95", st.TotalRevenue.StringFixed(2))
	assert.Equal(t, 6, st.TotalOrders)
	assert.Equal(t, 3, st.TotalCustomers)
	assert.Equal(t, 8, st.TotalProducts)
	assert.Equal(t, 8, st.NewProducts)
	// 749.95 in the last 30 days against 89.00 in the 30 before
	assert.Equal(t, "742.6", st.RevenueChange.String())
}

func TestCreateCustomerConcurrentDuplicates(t *testing.T) {
	db := memdb(t)
	svc := services.NewCustomerService(repos.NewUserRepo(db))
	in := services.NewCustomer{FirstName: "Fox", LastName: "Mulder", Email: "fox@example.com", Password: "Tru7h!sOut"}

	const n = 6
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(in)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, services.ErrConflict)
	}
	assert.Equal(t, 1, created)
}

func TestDeleteProductOnOrder(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))
	var id int64
	require.NoError(t, db.Get(&id, `SELECT id FROM products WHERE name = 'Smart Speaker'`))
	assert.ErrorIs(t, svc.DeleteProduct(id), services.ErrInUse)
	assert.ErrorIs(t, svc.DeleteProduct(9999), services.ErrNotFound)
}
