package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pharmadesk/m/domain"
)

// InvoiceStore persists scanned invoices. Invoices are append-only.
type InvoiceStore struct {
	db *sqlx.DB
}

func NewInvoiceStore(db *sqlx.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) Create(ctx context.Context, filename, text string) (domain.Invoice, error) {
	var inv domain.Invoice
	res, err := s.db.ExecContext(ctx, `INSERT INTO invoices (filename, extracted_text) VALUES (?, ?)`, filename, text)
	if err != nil {
		return inv, fmt.Errorf("failed to insert invoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return inv, fmt.Errorf("failed to read invoice id: %w", err)
	}
	if err := s.db.GetContext(ctx, &inv, `SELECT id, filename, extracted_text, created_at FROM invoices WHERE id = ?`, id); err != nil {
		return inv, fmt.Errorf("failed to reload invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *InvoiceStore) List(ctx context.Context) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	if err := s.db.SelectContext(ctx, &invoices, `SELECT id, filename, extracted_text, created_at FROM invoices`); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
