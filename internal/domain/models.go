package domain

import "github.com/shopspring/decimal"

// Money is a fixed-point amount; JSON renders it as a bare number.
type Money = decimal.Decimal

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID       int64  `db:"id" json:"category_id"`
	Name     string `db:"name" json:"category_name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

type Product struct {
	ID            int64          `db:"id" json:"product_id"`
	Name          string         `db:"name" json:"product_name"`
	Description   string         `db:"description" json:"description"`
	Price         Money          `db:"price" json:"price"`
	StockQuantity int            `db:"stock_quantity" json:"stock_quantity"`
	CategoryID    *int64         `db:"category_id" json:"category_id"`
	CategoryName  *string        `db:"category_name" json:"category_name"`
	IsFeatured    bool           `db:"is_featured" json:"is_featured"`
	CreatedAt     string         `db:"created_at" json:"created_at"`
	UpdatedAt     *string        `db:"updated_at" json:"updated_at,omitempty"`
	Images        []ProductImage `db:"-" json:"images"`
}

type ProductImage struct {
	ID           int64  `db:"id" json:"-"`
	ProductID    int64  `db:"product_id" json:"-"`
	URL          string `db:"image_url" json:"image_url"`
	IsPrimary    bool   `db:"is_primary" json:"is_primary"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name          string   `json:"product_name"`
	Description   string   `json:"description"`
	Price         Money    `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	CategoryID    *int64   `json:"category_id"`
	IsFeatured    bool     `json:"is_featured"`
	Images        []string `json:"images"`
}

type Setting struct {
	Category  string `db:"category"`
	Key       string `db:"settings_key"`
	Value     string `db:"settings_value"`
	UpdatedAt string `db:"updated_at"`
}
