package services

import (
	"errors"
	"log"

	"shopcore/internal/pdf"
	"shopcore/internal/repositories"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceService interface {
	EmailInvoice(id int64, recipient string) error
}

type invoiceService struct {
	repo     repositories.InvoiceRepository
	renderer pdf.Renderer
	emails   EmailService
}

func NewInvoiceService(repo repositories.InvoiceRepository, renderer pdf.Renderer, emails EmailService) InvoiceService {
	return &invoiceService{repo: repo, renderer: renderer, emails: emails}
}

// EmailInvoice renders the invoice to PDF and mails it as an attachment.
// An empty recipient falls back to the customer email on the invoice.
func (s *invoiceService) EmailInvoice(id int64, recipient string) error {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return ErrInvoiceNotFound
	}

	if recipient == "" {
		recipient = inv.CustomerEmail
	}
	if recipient == "" {
		return &ValidationError{Msg: "invoice has no customer email and no recipient was given"}
	}

	data, err := s.renderer.RenderInvoice(inv)
	if err != nil {
		return err
	}

	if err := s.emails.SendInvoiceEmail(recipient, inv.Number, data); err != nil {
		return err
	}
	log.Printf("[invoice][email] invoice=%s sent to=%s pdf_bytes=%d", inv.Number, recipient, len(data))
	return nil
}
