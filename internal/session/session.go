// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie session manager and maps the
// signed-in identity to and from session data.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/portfolio-go/internal/model"
)

// Lifetime is how long a signed-in session lasts.
const Lifetime = 24 * time.Hour

// Session data keys.
const (
	KeyUserID    = "user_id"
	KeyUserName  = "user_name"
	KeyUserEmail = "user_email"
	// Times are stored as Unix seconds: scs gob-encodes session values and
	// time.Time is not a registered interface type.
	KeyIssuedAt  = "issued_at"
	KeyExpiresAt = "expires_at"

	// Login flow state, cleared by the callback.
	KeyOAuthState    = "oauth_state"
	KeyOAuthVerifier = "oauth_verifier"
	KeyReturnTo      = "return_to"
)

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = &failClosedStore{next: sqlite3store.New(db)}

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if isDev {
		sm.Cookie.Name = "portfolio_session"
	} else {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// failClosedStore turns lookup errors into "no session" so a broken store
// can never authenticate a request. Writes still report errors.
type failClosedStore struct {
	next scs.Store
}

func (s *failClosedStore) Find(token string) ([]byte, bool, error) {
	b, found, err := s.next.Find(token)
	if err != nil {
		slog.Warn("session lookup failed, treating as anonymous", "error", err)
		return nil, false, nil
	}
	return b, found, nil
}

func (s *failClosedStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.next.Commit(token, b, expiry)
}

func (s *failClosedStore) Delete(token string) error {
	return s.next.Delete(token)
}

// Identity returns the signed-in identity stored in the request session,
// or nil when there is none. Expiry is not checked here.
func Identity(ctx context.Context, sm *scs.SessionManager) *model.Session {
	if sm == nil {
		return nil
	}
	userID := safeGetString(ctx, sm, KeyUserID)
	if userID == "" {
		return nil
	}
	return &model.Session{
		UserID:    userID,
		Name:      safeGetString(ctx, sm, KeyUserName),
		Email:     safeGetString(ctx, sm, KeyUserEmail),
		IssuedAt:  safeGetTime(ctx, sm, KeyIssuedAt),
		ExpiresAt: safeGetTime(ctx, sm, KeyExpiresAt),
	}
}

// SignIn renews the session token and stores id. Renewal prevents session
// fixation across the login boundary.
func SignIn(ctx context.Context, sm *scs.SessionManager, id model.Session) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, KeyUserID, id.UserID)
	sm.Put(ctx, KeyUserName, id.Name)
	sm.Put(ctx, KeyUserEmail, id.Email)
	sm.Put(ctx, KeyIssuedAt, id.IssuedAt.Unix())
	sm.Put(ctx, KeyExpiresAt, id.ExpiresAt.Unix())
	return nil
}

// SignOut destroys the session.
func SignOut(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// safeGetString recovers from scs panicking when no session data is loaded
// in ctx, e.g. for requests that bypassed LoadAndSave.
func safeGetString(ctx context.Context, sm *scs.SessionManager, key string) (v string) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	return sm.GetString(ctx, key)
}

func safeGetTime(ctx context.Context, sm *scs.SessionManager, key string) (v time.Time) {
	defer func() {
		if recover() != nil {
			v = time.Time{}
		}
	}()
	secs := sm.GetInt64(ctx, key)
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
