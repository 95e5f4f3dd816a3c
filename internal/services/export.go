package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Name", "Description", "Price", "Stock", "Category", "Featured", "Images", "CreatedAt", "UpdatedAt",
}

// ExportProducts writes every product as an .xlsx workbook with a single
// "Products" sheet.
func (s *CatalogService) ExportProducts(w io.Writer) (int, error) {
	products, err := s.Prods.All()
	if err != nil {
		return 0, fmt.Errorf("load products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return 0, err
	}
	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.StockQuantity)
		category := ""
		if p.CategoryName != nil {
			category = *p.CategoryName
		}
		row.AddCell().SetValue(category)
		row.AddCell().SetValue(p.IsFeatured)

		urls := make([]string, len(p.Images))
		for i, img := range p.Images {
			urls[i] = img.URL
		}
		row.AddCell().SetValue(strings.Join(urls, ","))
		row.AddCell().SetValue(p.CreatedAt)
		updated := ""
		if p.UpdatedAt != nil {
			updated = *p.UpdatedAt
		}
		row.AddCell().SetValue(updated)
	}

	if err := file.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(products), nil
}
