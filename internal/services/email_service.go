package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"shopcore/internal/config"
	"shopcore/internal/utils"
)

type EmailAttachment struct {
	Filename string
	Content  []byte
}

type EmailMessage struct {
	From        string // `"Name" <addr>`, `Name <addr>` or bare `addr`
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []EmailAttachment
}

type EmailService interface {
	Send(msg *EmailMessage) error
	SendOTPEmail(to, code string, ttl time.Duration) error
	SendInvoiceEmail(to, invoiceNumber string, pdf []byte) error
}

// ResendSender is the HTTP provider seam; tests substitute a fake.
type ResendSender interface {
	Send(apiKey string, req *utils.ResendSendRequest) (string, error)
}

type emailService struct {
	cfg    *config.EmailConfig
	resend ResendSender
	smtp   SMTPSender
}

func NewEmailService(cfg *config.EmailConfig, resend ResendSender, smtp SMTPSender) EmailService {
	return &emailService{cfg: cfg, resend: resend, smtp: smtp}
}

// Send picks a provider per call: a Resend key present right now selects
// the HTTP path, otherwise SMTP. When Resend is primary and fails, one
// SMTP fallback pass runs before giving up; SMTP as primary has no
// fallback. All terminal failures collapse into DeliveryError.
func (s *emailService) Send(msg *EmailMessage) error {
	key := s.cfg.ResendKey()
	smtpReady := s.smtp != nil && s.smtp.Configured()

	if key != "" {
		err := s.sendResend(key, msg)
		if err == nil {
			return nil
		}
		log.Printf("[email][send] resend failed: %v", err)
		if smtpReady {
			log.Printf("[email][send] falling back to smtp to=%v", msg.To)
			if err2 := s.sendSMTP(msg); err2 != nil {
				return &DeliveryError{Cause: fmt.Errorf("resend: %v; smtp fallback: %v", err, err2)}
			}
			return nil
		}
		return &DeliveryError{Cause: err}
	}

	if !smtpReady {
		return &DeliveryError{Cause: errors.New("no email provider configured")}
	}
	if err := s.sendSMTP(msg); err != nil {
		return &DeliveryError{Cause: err}
	}
	return nil
}

func (s *emailService) sendResend(apiKey string, msg *EmailMessage) error {
	req := &utils.ResendSendRequest{
		From:    utils.RewriteFrom(msg.From, s.cfg.FromDomain),
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, utils.ResendAttachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}

	log.Printf("[email][send] provider=resend to=%v subject=%q bytes=%d",
		msg.To, truncate(msg.Subject, 40), messageBytes(msg))
	id, err := s.resend.Send(apiKey, req)
	if err != nil {
		return err
	}
	log.Printf("[email][send] provider=resend accepted id=%s", id)
	return nil
}

func (s *emailService) sendSMTP(msg *EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		content := a.Content
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	log.Printf("[email][send] provider=smtp to=%v subject=%q bytes=%d",
		msg.To, truncate(msg.Subject, 40), messageBytes(msg))
	return s.smtp.Send(m)
}

func (s *emailService) defaultFrom() string {
	if s.cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}
	return s.cfg.FromEmail
}

func (s *emailService) SendOTPEmail(to, code string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())
	html := fmt.Sprintf(`
                <h3>Password reset requested</h3>
                <p>We received a request to reset the password for your account.</p>
                <p>Your verification code is: <strong style="font-size:1.4em;letter-spacing:2px">%s</strong></p>
                <p>The code expires in %d minutes. If you did not request this change, you can ignore this email.</p>
        `, code, minutes)
	text := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes)

	return s.Send(&EmailMessage{
		From:    s.defaultFrom(),
		To:      []string{to},
		Subject: "Your password reset code",
		HTML:    html,
		Text:    text,
	})
}

func (s *emailService) SendInvoiceEmail(to, invoiceNumber string, pdf []byte) error {
	html := fmt.Sprintf(`
                <h3>Invoice %s</h3>
                <p>Please find your invoice attached as a PDF.</p>
                <p>Thank you for your business.</p>
        `, invoiceNumber)

	return s.Send(&EmailMessage{
		From:    s.defaultFrom(),
		To:      []string{to},
		Subject: fmt.Sprintf("Invoice %s", invoiceNumber),
		HTML:    html,
		Attachments: []EmailAttachment{
			{Filename: fmt.Sprintf("invoice_%s.pdf", invoiceNumber), Content: pdf},
		},
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func messageBytes(msg *EmailMessage) int {
	n := len(msg.HTML) + len(msg.Text)
	for _, a := range msg.Attachments {
		n += len(a.Content)
	}
	return n
}
