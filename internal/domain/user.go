package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
	RoleUser     Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleCustomer, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID          int64  `db:"id" json:"id"`
	Email       string `db:"email" json:"email"`
	FirstName   string `db:"first_name" json:"firstName"`
	LastName    string `db:"last_name" json:"lastName"`
	PhoneNumber string `db:"phone_number" json:"phoneNumber,omitempty"`
	Hash        string `db:"password_hash" json:"-"`
	Role        Role   `db:"role" json:"role"`
	IsVerified  bool   `db:"is_verified" json:"isVerified"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
}

func (u User) Name() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Customer is a user row with its order aggregates, as listed on the
// customers screen.
type Customer struct {
	ID            int64     `db:"id" json:"user_id"`
	Email         string    `db:"email" json:"email"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	PhoneNumber   string    `db:"phone_number" json:"phone_number,omitempty"`
	CreatedAt     string    `db:"created_at" json:"created_at"`
	IsVerified    bool      `db:"is_verified" json:"is_verified"`
	TotalOrders   int       `db:"total_orders" json:"total_orders"`
	TotalSpent    Money     `db:"total_spent" json:"total_spent"`
	LastOrderDate *string   `db:"last_order_date" json:"last_order_date"`
	Addresses     []Address `db:"-" json:"addresses"`
}

type Address struct {
	ID          int64  `db:"id" json:"-"`
	UserID      int64  `db:"user_id" json:"-"`
	AddressType string `db:"address_type" json:"address_type"`
	City        string `db:"city" json:"city"`
	Country     string `db:"country" json:"country"`
}
