package repos

import (
	"database/sql"
	"fmt"

	"shopdash/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productSelect = `
  SELECT
    p.id, p.name, p.description, p.price, p.stock_quantity, p.category_id,
    c.name AS category_name, p.is_featured, p.created_at, p.updated_at
  FROM products p
  LEFT JOIN categories c ON c.id = p.category_id`

// List returns one page of products whose name contains search, newest
// first, with their images attached.
func (r *ProductRepo) List(search string, limit, offset int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, r.db.Rebind(productSelect+`
  WHERE LOWER(p.name) LIKE LOWER(?)
  ORDER BY p.created_at DESC, p.id DESC
  LIMIT ? OFFSET ?`), "%"+search+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	return out, r.attachImages(out)
}

func (r *ProductRepo) Count(search string) (int, error) {
	var n int
	err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM products WHERE LOWER(name) LIKE LOWER(?)`), "%"+search+"%")
	return n, err
}

// All returns every product, for exports.
func (r *ProductRepo) All() ([]domain.Product, error) {
	out := []domain.Product{}
	if err := r.db.Select(&out, productSelect+` ORDER BY p.id`); err != nil {
		return nil, err
	}
	return out, r.attachImages(out)
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	if err := r.db.Get(&p, r.db.Rebind(productSelect+` WHERE p.id = ?`), id); err != nil {
		return domain.Product{}, err
	}
	ps := []domain.Product{p}
	if err := r.attachImages(ps); err != nil {
		return domain.Product{}, err
	}
	return ps[0], nil
}

func (r *ProductRepo) attachImages(ps []domain.Product) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]int64, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	query, args, err := sqlx.In(`
		SELECT id, product_id, image_url, is_primary, display_order
		FROM product_images
		WHERE product_id IN (?)
		ORDER BY product_id, display_order, id`, ids)
	if err != nil {
		return err
	}
	var rows []domain.ProductImage
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return err
	}
	byProduct := make(map[int64][]domain.ProductImage, len(ps))
	for _, img := range rows {
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}
	for i := range ps {
		ps[i].Images = byProduct[ps[i].ID]
		if ps[i].Images == nil {
			ps[i].Images = []domain.ProductImage{}
		}
	}
	return nil
}

// Create inserts the product and its images in one transaction. The first
// image becomes the primary one.
func (r *ProductRepo) Create(in domain.ProductInput) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.Get(&id, tx.Rebind(`
		INSERT INTO products(name, description, price, stock_quantity, category_id, is_featured)
		VALUES(?, ?, ?, ?, ?, ?)
		RETURNING id
	`), in.Name, in.Description, in.Price, in.StockQuantity, in.CategoryID, in.IsFeatured); err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	if err := insertImages(tx, id, in.Images); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Update rewrites the product row and, when images are given, replaces the
// whole image set. Returns sql.ErrNoRows when the product does not exist.
func (r *ProductRepo) Update(id int64, in domain.ProductInput) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(tx.Rebind(`
		UPDATE products SET
		  name = ?, description = ?, price = ?, stock_quantity = ?,
		  category_id = ?, is_featured = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`), in.Name, in.Description, in.Price, in.StockQuantity, in.CategoryID, in.IsFeatured, id)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	if len(in.Images) > 0 {
		if _, err := tx.Exec(tx.Rebind(`DELETE FROM product_images WHERE product_id = ?`), id); err != nil {
			return fmt.Errorf("clear images: %w", err)
		}
		if err := insertImages(tx, id, in.Images); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertImages(tx *sqlx.Tx, productID int64, urls []string) error {
	for i, url := range urls {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO product_images(product_id, image_url, is_primary, display_order)
			VALUES(?, ?, ?, ?)
		`), productID, url, i == 0, i); err != nil {
			return fmt.Errorf("insert image %d: %w", i, err)
		}
	}
	return nil
}

// Delete removes a product; images go with it. Returns sql.ErrNoRows when
// nothing was deleted and ErrInUse when order lines still point at it.
func (r *ProductRepo) Delete(id int64) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return constraintError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
