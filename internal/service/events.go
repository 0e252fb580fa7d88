// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the portfolio business logic: the hero profile,
// projects, contact messages, avatar ingest and the audit event log.
// Every mutating operation takes the caller's session explicitly.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/store"
)

// EventService records and lists audit events.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to log event: %v", err)
		return err
	}
	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, metadata)
}

// LogAuthEvent logs a sign-in or sign-out.
func (s *EventService) LogAuthEvent(ctx context.Context, message string, sess *model.Session, ip string) error {
	meta := map[string]any{"ip": ip}
	if sess != nil {
		meta["user_id"] = sess.UserID
		meta["email"] = sess.Email
	}
	return s.LogInfo(ctx, model.EventCategoryAuth, message, meta)
}

// Recent returns the newest events first.
func (s *EventService) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.queries.ListEvents(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	events := make([]model.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, model.Event{
			ID:        r.ID,
			Level:     r.Level,
			Category:  r.Category,
			Message:   r.Message,
			Metadata:  r.Metadata,
			CreatedAt: r.CreatedAt,
		})
	}
	return events, nil
}

// Prune deletes events older than retention.
func (s *EventService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.queries.DeleteEventsBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	if n > 0 {
		slog.Info("pruned old events", "count", n)
	}
	return n, nil
}
