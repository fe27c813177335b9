package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gopkg.in/gomail.v2"

	"shopcore/internal/config"
)

const (
	smtpMaxAttempts    = 3
	smtpAttemptTimeout = 45 * time.Second
)

// SMTPSender is what the delivery engine needs from the SMTP path; tests
// substitute a fake.
type SMTPSender interface {
	Send(m *gomail.Message) error
	Configured() bool
}

// SMTPMailer owns the SMTP connection. It is injected where needed instead
// of living in a package-level variable, so teardown and reuse stay visible.
// A healthy connection is kept between sends; any failure invalidates it
// and the next attempt dials from scratch.
type SMTPMailer struct {
	cfg *config.EmailConfig

	mu   sync.Mutex
	conn gomail.SendCloser
}

func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Configured() bool {
	return m.cfg.SMTPConfigured()
}

// Send tries up to smtpMaxAttempts deliveries. Retries never reuse the
// previous connection: it is torn down and a fresh one dialed, with a
// attempt*2s pause in between.
func (m *SMTPMailer) Send(msg *gomail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= smtpMaxAttempts; attempt++ {
		if attempt > 1 {
			m.teardownLocked()
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
		if err := m.sendOnceLocked(msg); err != nil {
			lastErr = err
			log.Printf("[email][smtp] attempt %d/%d failed: %v", attempt, smtpMaxAttempts, err)
			continue
		}
		return nil
	}
	m.teardownLocked()
	return fmt.Errorf("smtp exhausted after %d attempts: %w", smtpMaxAttempts, lastErr)
}

type smtpResult struct {
	conn gomail.SendCloser
	err  error
}

// sendOnceLocked bounds one whole attempt (dial + send) by a wall-clock
// timeout, independent of the TCP-level timeouts inside the dialer.
func (m *SMTPMailer) sendOnceLocked(msg *gomail.Message) error {
	done := make(chan smtpResult, 1)
	conn := m.conn
	dialer := m.dialer()

	go func() {
		c := conn
		if c == nil {
			var err error
			if c, err = dialer.Dial(); err != nil {
				done <- smtpResult{nil, fmt.Errorf("smtp dial: %w", err)}
				return
			}
		}
		done <- smtpResult{c, gomail.Send(c, msg)}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if r.conn != nil {
				r.conn.Close()
			}
			m.conn = nil
			return r.err
		}
		m.conn = r.conn
		return nil
	case <-time.After(smtpAttemptTimeout):
		m.conn = nil
		// the goroutine still owns its connection; close it when it lands
		go func() {
			if r := <-done; r.conn != nil {
				r.conn.Close()
			}
		}()
		return errors.New("smtp attempt timed out")
	}
}

// dialer is rebuilt per attempt so a rotated SMTP password is picked up
// without a restart.
func (m *SMTPMailer) dialer() *gomail.Dialer {
	return gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass())
}

func (m *SMTPMailer) teardownLocked() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}
