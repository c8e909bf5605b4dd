package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pharmadesk/m/domain"
)

// CustomerStore persists customers and their medicine lists.
type CustomerStore struct {
	db *sqlx.DB
}

func NewCustomerStore(db *sqlx.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, phone_number, email, medicines) VALUES (?, ?, ?, ?)`,
		c.Name, c.PhoneNumber, c.Email, c.Medicines)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to read customer id: %w", err)
	}
	c.ID = id
	if c.Medicines == nil {
		c.Medicines = domain.MedicineList{}
	}
	return c, nil
}

func (s *CustomerStore) Get(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	err := s.db.GetContext(ctx, &c, `SELECT id, name, phone_number, email, medicines FROM customers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, &domain.NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to fetch customer %d: %w", id, err)
	}
	return c, nil
}

func (s *CustomerStore) List(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	if err := s.db.SelectContext(ctx, &customers, `SELECT id, name, phone_number, email, medicines FROM customers`); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerStore) Update(ctx context.Context, c domain.Customer) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone_number = ?, email = ?, medicines = ? WHERE id = ?`,
		c.Name, c.PhoneNumber, c.Email, c.Medicines, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer %d: %w", c.ID, err)
	}
	return expectOneRow(res, "customer", c.ID)
}

func (s *CustomerStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	return expectOneRow(res, "customer", id)
}
