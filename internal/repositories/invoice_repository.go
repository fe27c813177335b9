package repositories

import (
	"database/sql"
	"fmt"

	"shopcore/internal/models"
)

type InvoiceRepository interface {
	GetByID(id int64) (*models.Invoice, error)
}

type invoiceRepository struct {
	DB *sql.DB
}

func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{DB: db}
}

func (r *invoiceRepository) GetByID(id int64) (*models.Invoice, error) {
	const q = `
                SELECT id, number, customer_name, customer_email, currency, total, issued_at
                FROM invoices
                WHERE id = $1
        `
	inv := &models.Invoice{}
	err := r.DB.QueryRow(q, id).Scan(&inv.ID, &inv.Number, &inv.CustomerName, &inv.CustomerEmail, &inv.Currency, &inv.Total, &inv.IssuedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invoice by id: %w", err)
	}

	const ql = `
                SELECT id, invoice_id, product, quantity, unit_price
                FROM invoice_lines
                WHERE invoice_id = $1
                ORDER BY id
        `
	rows, err := r.DB.Query(ql, id)
	if err != nil {
		return nil, fmt.Errorf("invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Product, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("invoice line scan: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoice lines: %w", err)
	}
	return inv, nil
}
