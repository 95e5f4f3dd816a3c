package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shopdash/internal/domain"
	"shopdash/internal/repos"
)

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

type OrderPage struct {
	Orders []domain.Order `json:"orders"`
	PageInfo
}

// List pages through orders, optionally only those in status.
func (s *OrderService) List(status string, p Paging) (OrderPage, error) {
	if status != "" && !domain.OrderStatus(status).Valid() {
		return OrderPage{}, invalid("status", "unknown order status")
	}
	total, err := s.Orders.Count(status)
	if err != nil {
		return OrderPage{}, fmt.Errorf("count orders: %w", err)
	}
	list, err := s.Orders.List(status, p.Limit, p.Offset())
	if err != nil {
		return OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	for i := range list {
		roundOrder(&list[i])
	}
	return OrderPage{Orders: list, PageInfo: p.Info(total)}, nil
}

func (s *OrderService) Get(id int64) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if err != nil {
		return domain.Order{}, notFound(err)
	}
	roundOrder(&o)
	return o, nil
}

// UpdateStatus moves the order to next when the transition is allowed and
// returns the updated order. Item prices are never touched.
func (s *OrderService) UpdateStatus(id int64, next domain.OrderStatus) (domain.Order, error) {
	if !next.Valid() {
		return domain.Order{}, invalid("status", "unknown order status")
	}
	cur, err := s.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	if !cur.Status.CanBecome(next) {
		return domain.Order{}, ErrInvalidTransition
	}
	if err := s.Orders.UpdateStatus(id, cur.Status, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// changed or removed since we read it
			return domain.Order{}, ErrConflict
		}
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return s.Get(id)
}

func roundOrder(o *domain.Order) {
	o.TotalAmount = o.TotalAmount.Round(2)
	for i := range o.Items {
		o.Items[i].Price = o.Items[i].Price.Round(2)
	}
}
