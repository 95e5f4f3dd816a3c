package repos

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"shopdash/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type Fixtures struct {
	Categories []struct {
		Name   string `yaml:"name"`
		Active bool   `yaml:"active"`
	} `yaml:"categories"`
	Products []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Price       string   `yaml:"price"`
		Stock       int      `yaml:"stock"`
		Category    string   `yaml:"category"`
		Featured    bool     `yaml:"featured"`
		Images      []string `yaml:"images"`
	} `yaml:"products"`
	Users []struct {
		Email     string `yaml:"email"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Phone     string `yaml:"phone"`
		Password  string `yaml:"password"`
		Role      string `yaml:"role"`
		Verified  bool   `yaml:"verified"`
		Addresses []struct {
			Type    string `yaml:"type"`
			City    string `yaml:"city"`
			Country string `yaml:"country"`
		} `yaml:"addresses"`
	} `yaml:"users"`
	Orders []struct {
		Customer string `yaml:"customer"`
		Status   string `yaml:"status"`
		Payment  string `yaml:"payment"`
		DaysAgo  int    `yaml:"days_ago"`
		Items    []struct {
			Product  string `yaml:"product"`
			Quantity int    `yaml:"quantity"`
		} `yaml:"items"`
	} `yaml:"orders"`
	Settings map[string]map[string]any `yaml:"settings"`
}

// LoadFixtures decodes seed YAML, rejecting unknown fields.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

func DefaultFixtures() (*Fixtures, error) { return LoadFixtures(bytes.NewReader(defaultSeed)) }

// SeedIfEmpty loads the bundled demo data when the users table is empty.
func SeedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	fx, err := DefaultFixtures()
	if err != nil {
		return err
	}
	log.Println("[seed] inserting demo categories/products/users/orders/settings")
	return Seed(db, fx, time.Now())
}

// Seed inserts fx. Order dates are placed relative to now.
func Seed(db *sqlx.DB, fx *Fixtures, now time.Time) error {
	cats := NewCategoryRepo(db)
	prods := NewProductRepo(db)
	users := NewUserRepo(db)
	orders := NewOrderRepo(db)
	settings := NewSettingsRepo(db)

	catIDs := map[string]int64{}
	for _, c := range fx.Categories {
		id, err := cats.Create(c.Name, c.Active)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		catIDs[c.Name] = id
	}

	type seeded struct {
		id    int64
		price decimal.Decimal
	}
	prodIDs := map[string]seeded{}
	for _, p := range fx.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("seed product %q price: %w", p.Name, err)
		}
		in := domain.ProductInput{
			Name: p.Name, Description: p.Description, Price: price,
			StockQuantity: p.Stock, IsFeatured: p.Featured, Images: p.Images,
		}
		if id, ok := catIDs[p.Category]; ok {
			in.CategoryID = &id
		}
		id, err := prods.Create(in)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		prodIDs[p.Name] = seeded{id: id, price: price}
	}

	userIDs := map[string]int64{}
	for _, u := range fx.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		row, err := users.Create(&domain.User{
			Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, PhoneNumber: u.Phone,
			Hash: string(hash), Role: domain.Role(u.Role), IsVerified: u.Verified,
		})
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		userIDs[u.Email] = row.ID
		for _, a := range u.Addresses {
			if err := users.AddAddress(domain.Address{UserID: row.ID, AddressType: a.Type, City: a.City, Country: a.Country}); err != nil {
				return fmt.Errorf("seed address for %q: %w", u.Email, err)
			}
		}
	}

	for i, o := range fx.Orders {
		uid, ok := userIDs[o.Customer]
		if !ok {
			return fmt.Errorf("seed order %d: unknown customer %q", i, o.Customer)
		}
		lines := make([]NewOrderLine, 0, len(o.Items))
		for _, it := range o.Items {
			p, ok := prodIDs[it.Product]
			if !ok {
				return fmt.Errorf("seed order %d: unknown product %q", i, it.Product)
			}
			lines = append(lines, NewOrderLine{ProductID: p.id, Quantity: it.Quantity, UnitPrice: p.price})
		}
		createdAt := now.Add(-time.Duration(o.DaysAgo) * 24 * time.Hour)
		if _, err := orders.Create(uid, domain.OrderStatus(o.Status), domain.PaymentStatus(o.Payment), createdAt, lines); err != nil {
			return fmt.Errorf("seed order %d: %w", i, err)
		}
	}

	for category, kv := range fx.Settings {
		values := make(map[string]string, len(kv))
		for k, v := range kv {
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("seed setting %s.%s: %w", category, k, err)
			}
			values[k] = string(b)
		}
		if err := settings.Upsert(category, values); err != nil {
			return err
		}
	}
	return nil
}
