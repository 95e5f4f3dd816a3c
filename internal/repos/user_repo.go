package repos

import (
	"shopdash/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,first_name,last_name,phone_number,password_hash,role,is_verified,created_at`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE id=?`), id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u (Hash must already be set) and returns the stored row.
// A taken email gives ErrDuplicate.
func (r *UserRepo) Create(u *domain.User) (*domain.User, error) {
	var id int64
	err := r.DB.Get(&id, r.DB.Rebind(`
		INSERT INTO users(email,first_name,last_name,phone_number,password_hash,role,is_verified)
		VALUES(?,?,?,?,?,?,?)
		RETURNING id
	`), u.Email, u.FirstName, u.LastName, u.PhoneNumber, u.Hash, string(u.Role), u.IsVerified)
	if err != nil {
		return nil, constraintError(err)
	}
	return r.ByID(id)
}

func customerFilter(search string) (string, []any) {
	like := "%" + search + "%"
	return `u.role = 'user' AND (
		LOWER(u.email) LIKE LOWER(?) OR
		LOWER(u.first_name) LIKE LOWER(?) OR
		LOWER(u.last_name) LIKE LOWER(?)
	)`, []any{like, like, like}
}

// ListCustomers pages through role=user accounts with their order
// aggregates, biggest spenders first.
func (r *UserRepo) ListCustomers(search string, limit, offset int) ([]domain.Customer, error) {
	where, args := customerFilter(search)
	out := []domain.Customer{}
	err := r.DB.Select(&out, r.DB.Rebind(`
		SELECT
		  u.id, u.email, u.first_name, u.last_name, u.phone_number, u.created_at, u.is_verified,
		  COUNT(o.id) AS total_orders,
		  COALESCE(SUM(o.total_amount), 0) AS total_spent,
		  MAX(o.created_at) AS last_order_date
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id
		WHERE `+where+`
		GROUP BY u.id, u.email, u.first_name, u.last_name, u.phone_number, u.created_at, u.is_verified
		ORDER BY total_spent DESC, u.id
		LIMIT ? OFFSET ?
	`), append(args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, len(out))
	for i, c := range out {
		ids[i] = c.ID
	}
	addrs, err := r.addressesFor(ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Addresses = addrs[out[i].ID]
		if out[i].Addresses == nil {
			out[i].Addresses = []domain.Address{}
		}
	}
	return out, nil
}

func (r *UserRepo) CountCustomers(search string) (int, error) {
	where, args := customerFilter(search)
	var n int
	err := r.DB.Get(&n, r.DB.Rebind(`SELECT COUNT(*) FROM users u WHERE `+where), args...)
	return n, err
}

func (r *UserRepo) addressesFor(userIDs []int64) (map[int64][]domain.Address, error) {
	query, args, err := sqlx.In(`
		SELECT id, user_id, address_type, city, country
		FROM addresses WHERE user_id IN (?)
		ORDER BY user_id, id`, userIDs)
	if err != nil {
		return nil, err
	}
	var rows []domain.Address
	if err := r.DB.Select(&rows, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make(map[int64][]domain.Address, len(userIDs))
	for _, a := range rows {
		out[a.UserID] = append(out[a.UserID], a)
	}
	return out, nil
}

// AddAddress is used by the seeder and the CLI.
func (r *UserRepo) AddAddress(a domain.Address) error {
	_, err := r.DB.Exec(r.DB.Rebind(`INSERT INTO addresses(user_id,address_type,city,country) VALUES(?,?,?,?)`),
		a.UserID, a.AddressType, a.City, a.Country)
	return err
}
