package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pharmadesk/m/domain"
)

// StockStore persists stock items.
type StockStore struct {
	db *sqlx.DB
}

func NewStockStore(db *sqlx.DB) *StockStore {
	return &StockStore{db: db}
}

func (s *StockStore) Create(ctx context.Context, item domain.StockItem) (domain.StockItem, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO stock (name, quantity, price, expiry_date) VALUES (?, ?, ?, ?)`,
		item.Name, item.Quantity, item.Price, item.ExpiryDate)
	if err != nil {
		return domain.StockItem{}, fmt.Errorf("failed to insert stock item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.StockItem{}, fmt.Errorf("failed to read stock item id: %w", err)
	}
	item.ID = id
	return item, nil
}

func (s *StockStore) Get(ctx context.Context, id int64) (domain.StockItem, error) {
	var item domain.StockItem
	err := s.db.GetContext(ctx, &item, `SELECT id, name, quantity, price, expiry_date FROM stock WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockItem{}, &domain.NotFoundError{Entity: "stock item", ID: id}
	}
	if err != nil {
		return domain.StockItem{}, fmt.Errorf("failed to fetch stock item %d: %w", id, err)
	}
	return item, nil
}

func (s *StockStore) List(ctx context.Context) ([]domain.StockItem, error) {
	items := []domain.StockItem{}
	if err := s.db.SelectContext(ctx, &items, `SELECT id, name, quantity, price, expiry_date FROM stock`); err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return items, nil
}

// Update overwrites every field of an existing item in one statement.
func (s *StockStore) Update(ctx context.Context, item domain.StockItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE stock SET name = ?, quantity = ?, price = ?, expiry_date = ? WHERE id = ?`,
		item.Name, item.Quantity, item.Price, item.ExpiryDate, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update stock item %d: %w", item.ID, err)
	}
	return expectOneRow(res, "stock item", item.ID)
}

func (s *StockStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stock WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stock item %d: %w", id, err)
	}
	return expectOneRow(res, "stock item", id)
}

func expectOneRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s %d: %w", entity, id, err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
