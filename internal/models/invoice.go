package models

import "time"

type Invoice struct {
	ID            int64         `json:"id"`
	Number        string        `json:"number"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	Currency      string        `json:"currency"`
	Total         float64       `json:"total"`
	IssuedAt      time.Time     `json:"issued_at"`
	Lines         []InvoiceLine `json:"lines"`
}

type InvoiceLine struct {
	ID        int64   `json:"id"`
	InvoiceID int64   `json:"invoice_id"`
	Product   string  `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
