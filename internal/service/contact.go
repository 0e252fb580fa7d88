// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/mail"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/validation"
)

// Mailer delivers rendered email.
type Mailer interface {
	// Configured returns an error naming any missing setting.
	Configured() error
	From() string
	To() string
	Send(ctx context.Context, msg mail.Message) error
}

// ContactService forwards contact messages by email. Nothing is stored.
type ContactService struct {
	mailer Mailer
	logger *slog.Logger
	now    func() time.Time
}

// NewContactService creates a ContactService.
func NewContactService(mailer Mailer, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{mailer: mailer, logger: logger, now: time.Now}
}

// Send validates in and sends it exactly once. Provider failures are
// returned as ErrDelivery.
func (s *ContactService) Send(ctx context.Context, in validation.ContactInput, meta model.SenderMeta) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if err := validation.Validate(in); err != nil {
		return err
	}

	if s.mailer == nil {
		return fmt.Errorf("%w: no mailer", ErrNotConfigured)
	}
	if err := s.mailer.Configured(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}

	msg, err := mail.BuildContactMessage(s.mailer.From(), s.mailer.To(),
		model.ContactMessage{Name: in.Name, Email: in.Email, Message: in.Message},
		meta, s.now())
	if err != nil {
		return fmt.Errorf("building contact email: %w", err)
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("contact email delivery failed", "error", err, "country", meta.Country)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	s.logger.Info("contact email sent", "country", meta.Country, "browser", meta.Browser)
	return nil
}
