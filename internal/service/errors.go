// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
)

// Service errors. Validation failures are *validation.Errors. Anything
// else returned by a service is unexpected and maps to HTTP 500.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("service not configured")
	ErrDelivery      = errors.New("delivery failed")
	ErrInvalidImage  = errors.New("invalid image")
)

// requireSession is the first check of every mutating operation.
func requireSession(sess *model.Session, now time.Time) error {
	if !sess.Valid(now) {
		return ErrUnauthorized
	}
	return nil
}
