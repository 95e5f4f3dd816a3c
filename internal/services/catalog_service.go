package services

import (
	"errors"
	"fmt"

	"shopdash/internal/domain"
	"shopdash/internal/repos"
	"shopdash/internal/validate"
)

const maxImages = 20

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.ListActive()
}

type ProductPage struct {
	Products []domain.Product `json:"products"`
	PageInfo
}

func (s *CatalogService) ListProducts(search string, p Paging) (ProductPage, error) {
	total, err := s.Prods.Count(search)
	if err != nil {
		return ProductPage{}, fmt.Errorf("count products: %w", err)
	}
	list, err := s.Prods.List(search, p.Limit, p.Offset())
	if err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	for i := range list {
		list[i].Price = list[i].Price.Round(2)
	}
	return ProductPage{Products: list, PageInfo: p.Info(total)}, nil
}

func (s *CatalogService) GetProduct(id int64) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, notFound(err)
	}
	p.Price = p.Price.Round(2)
	return p, nil
}

func (s *CatalogService) CreateProduct(in domain.ProductInput) (int64, error) {
	in, err := s.check(in)
	if err != nil {
		return 0, err
	}
	id, err := s.Prods.Create(in)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

// UpdateProduct rewrites the product. An empty image list keeps the
// current images.
func (s *CatalogService) UpdateProduct(id int64, in domain.ProductInput) error {
	in, err := s.check(in)
	if err != nil {
		return err
	}
	if err := s.Prods.Update(id, in); err != nil {
		return notFound(err)
	}
	return nil
}

// DeleteProduct removes a product. Products that appear on orders give
// ErrInUse.
func (s *CatalogService) DeleteProduct(id int64) error {
	err := s.Prods.Delete(id)
	if errors.Is(err, repos.ErrInUse) {
		return ErrInUse
	}
	return notFound(err)
}

// check normalizes in and rejects anything the schema would refuse.
func (s *CatalogService) check(in domain.ProductInput) (domain.ProductInput, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return in, invalid("product_name", "required, at most 255 characters")
	}
	in.Name = name
	if in.Price.IsNegative() {
		return in, invalid("price", "must be zero or more")
	}
	in.Price = in.Price.Round(2)
	if in.StockQuantity < 0 {
		return in, invalid("stock_quantity", "must be zero or more")
	}
	if len(in.Images) > maxImages {
		return in, invalid("images", fmt.Sprintf("at most %d images", maxImages))
	}
	for i, raw := range in.Images {
		url, ok := validate.ImageURL(raw)
		if !ok {
			return in, invalid("images", fmt.Sprintf("image %d is not a valid URL", i))
		}
		in.Images[i] = url
	}
	if in.CategoryID != nil {
		ok, err := s.Cats.Exists(*in.CategoryID)
		if err != nil {
			return in, fmt.Errorf("lookup category: %w", err)
		}
		if !ok {
			return in, invalid("category_id", "unknown category")
		}
	}
	return in, nil
}
