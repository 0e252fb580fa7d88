// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail delivers contact messages through the Resend API.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Message is a fully rendered email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Config holds the Resend credentials and addresses.
type Config struct {
	APIKey string
	From   string
	To     string
}

// Missing lists the unset settings by environment variable name.
func (c Config) Missing() []string {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "PORTFOLIO_RESEND_API_KEY")
	}
	if c.From == "" {
		missing = append(missing, "PORTFOLIO_MAIL_FROM")
	}
	if c.To == "" {
		missing = append(missing, "PORTFOLIO_MAIL_TO")
	}
	return missing
}

// emailSender is the subset of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer sends mail through Resend.
type ResendMailer struct {
	cfg    Config
	emails emailSender
}

// NewResendMailer creates a mailer. An incomplete config is accepted and
// reported by Configured at send time.
func NewResendMailer(cfg Config) *ResendMailer {
	m := &ResendMailer{cfg: cfg}
	if cfg.APIKey != "" {
		m.emails = resend.NewClient(cfg.APIKey).Emails
	}
	return m
}

// Configured returns an error naming every missing setting.
func (m *ResendMailer) Configured() error {
	if missing := m.cfg.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// From returns the configured sender address.
func (m *ResendMailer) From() string { return m.cfg.From }

// To returns the configured recipient address.
func (m *ResendMailer) To() string { return m.cfg.To }

// Send delivers msg exactly once. There are no retries.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if m.emails == nil {
		return errors.New("resend client not configured")
	}

	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}

	if _, err := m.emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("sending via resend: %w", err)
	}
	return nil
}
