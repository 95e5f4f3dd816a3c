package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shopdash/internal/domain"
	"shopdash/internal/repos"
	"shopdash/internal/validate"

	"golang.org/x/crypto/bcrypt"
)

type CustomerService struct {
	Users *repos.UserRepo
}

func NewCustomerService(users *repos.UserRepo) *CustomerService {
	return &CustomerService{Users: users}
}

type CustomerPage struct {
	Customers []domain.Customer `json:"customers"`
	PageInfo
}

func (s *CustomerService) List(search string, p Paging) (CustomerPage, error) {
	total, err := s.Users.CountCustomers(search)
	if err != nil {
		return CustomerPage{}, fmt.Errorf("count customers: %w", err)
	}
	list, err := s.Users.ListCustomers(search, p.Limit, p.Offset())
	if err != nil {
		return CustomerPage{}, fmt.Errorf("list customers: %w", err)
	}
	for i := range list {
		list[i].TotalSpent = list[i].TotalSpent.Round(2)
	}
	return CustomerPage{Customers: list, PageInfo: p.Info(total)}, nil
}

// NewCustomer is the body of a customer sign-up made by staff.
type NewCustomer struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// Create registers a role=user account. A taken email gives ErrConflict.
func (s *CustomerService) Create(in NewCustomer) (domain.Customer, error) {
	first, ok := validate.Name(in.FirstName)
	if !ok {
		return domain.Customer{}, invalid("first_name", "required")
	}
	last, ok := validate.Name(in.LastName)
	if !ok {
		return domain.Customer{}, invalid("last_name", "required")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return domain.Customer{}, invalid("email", "a valid email is required")
	}
	phone, ok := validate.Phone(in.PhoneNumber)
	if !ok {
		return domain.Customer{}, invalid("phone_number", "digits, spaces and + ( ) . - only")
	}
	if in.Password == "" {
		return domain.Customer{}, invalid("password", "required")
	}
	if !validate.Password(in.Password) {
		return domain.Customer{}, invalid("password", "8-72 characters with upper, lower, digit and symbol")
	}

	if _, err := s.Users.ByEmail(email); err == nil {
		return domain.Customer{}, ErrConflict
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Customer{}, err
	}
	u, err := s.Users.Create(&domain.User{
		Email: email, FirstName: first, LastName: last, PhoneNumber: phone,
		Hash: string(hash), Role: domain.RoleUser,
	})
	if errors.Is(err, repos.ErrDuplicate) {
		// lost a race with a concurrent create
		return domain.Customer{}, ErrConflict
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return domain.Customer{
		ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName,
		PhoneNumber: u.PhoneNumber, CreatedAt: u.CreatedAt, IsVerified: u.IsVerified,
		Addresses: []domain.Address{},
	}, nil
}
