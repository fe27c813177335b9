package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const resendAPIURL = "https://api.resend.com"

// Resend only accepts senders on a verified domain; without one the
// sandbox address still delivers to the account owner.
const resendSandboxFrom = "onboarding@resend.dev"

type ResendClient struct {
	BaseURL string // overridable for tests
	client  *http.Client
}

type ResendAttachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"` // marshals to base64
}

type ResendSendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html,omitempty"`
	Text        string             `json:"text,omitempty"`
	Attachments []ResendAttachment `json:"attachments,omitempty"`
}

type resendSendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func NewResendClient() *ResendClient {
	return &ResendClient{
		BaseURL: resendAPIURL,
		client:  &http.Client{},
	}
}

// Send performs a single POST to the Resend API. The key is passed per
// call because the caller re-reads configuration on every send. Any
// non-2xx status is a hard failure for this attempt; retry and fallback
// live a layer up.
func (c *ResendClient) Send(apiKey string, req *ResendSendRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("resend marshal: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("resend post: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var parsed resendSendResponse
	_ = json.Unmarshal(respBody, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := parsed.Message
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		return "", fmt.Errorf("resend returned %d: %s", resp.StatusCode, msg)
	}
	return parsed.ID, nil
}

// ParseFromAddress splits a "from" header into display name and address.
// Accepted shapes: `"Name" <addr>`, `Name <addr>`, bare `addr`.
func ParseFromAddress(from string) (name, addr string) {
	from = strings.TrimSpace(from)
	open := strings.LastIndex(from, "<")
	end := strings.LastIndex(from, ">")
	if open >= 0 && end > open {
		addr = strings.TrimSpace(from[open+1 : end])
		name = strings.TrimSpace(from[:open])
		name = strings.Trim(name, `"`)
		return name, addr
	}
	return "", from
}

// RewriteFrom applies Resend's sender constraint: keep the address when it
// is on the verified domain, otherwise substitute the verified (or sandbox)
// sender while preserving the caller's display name.
func RewriteFrom(from, verifiedDomain string) string {
	name, addr := ParseFromAddress(from)

	target := resendSandboxFrom
	if verifiedDomain != "" {
		if strings.HasSuffix(addr, "@"+verifiedDomain) {
			target = addr
		} else {
			target = "noreply@" + verifiedDomain
		}
	}
	if name == "" {
		return target
	}
	return fmt.Sprintf("%s <%s>", name, target)
}
