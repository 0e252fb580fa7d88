// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/validation"
)

const (
	// DefaultGitHubAPI is the public GitHub REST endpoint.
	DefaultGitHubAPI = "https://api.github.com"

	githubTimeout   = 10 * time.Second
	githubMaxBody   = 2 << 20
	calendarWeeks   = 53
	calendarDays    = 7
	githubUserAgent = "portfolio-go"
)

var contributionColors = [...]string{
	"bg-gray-200",
	"bg-green-200",
	"bg-green-400",
	"bg-green-500",
	"bg-green-600",
}

// GitHubConfig configures GitHubService.
type GitHubConfig struct {
	APIURL          string        // DefaultGitHubAPI when empty
	Token           string        // optional; raises the upstream rate limit
	DefaultUsername string        // used when the request names no user
	CacheTTL        time.Duration // how long a successful fetch is reused
	Client          *http.Client  // a client with a 10s timeout when nil
}

// GitHubService proxies a user's contribution data from GitHub. Upstream
// failures never fail a request: the caller gets a generated calendar
// flagged as a fallback.
type GitHubService struct {
	apiURL          string
	token           string
	defaultUsername string
	client          *http.Client
	cache           *cache.TypedCache[model.GitHubContributions]
	logger          *slog.Logger
	now             func() time.Time
	intn            func(n int) int
}

// NewGitHubService creates a GitHubService. c may be nil to disable caching.
func NewGitHubService(cfg GitHubConfig, c cache.Cache, logger *slog.Logger) *GitHubService {
	if logger == nil {
		logger = slog.Default()
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultGitHubAPI
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: githubTimeout}
	}
	return &GitHubService{
		apiURL:          apiURL,
		token:           cfg.Token,
		defaultUsername: cfg.DefaultUsername,
		client:          client,
		cache:           cache.NewTypedCache[model.GitHubContributions](c, cfg.CacheTTL, logger),
		logger:          logger,
		now:             time.Now,
		intn:            rand.IntN,
	}
}

// Contributions returns the contributions and profile of username, or of
// the configured default user when username is empty. Only a malformed
// username is an error (*validation.Errors).
func (s *GitHubService) Contributions(ctx context.Context, username string) (model.GitHubContributions, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = s.defaultUsername
	}
	if err := validation.Validate(validation.GitHubQuery{Username: username}); err != nil {
		return model.GitHubContributions{}, err
	}

	key := cache.KeyGitHubPrefix + strings.ToLower(username)
	result, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (model.GitHubContributions, error) {
		return s.fetch(ctx, username)
	})
	if err == nil {
		return result, nil
	}

	s.logger.Warn("github fetch failed, serving generated calendar", "username", username, "error", err)
	return s.fallback(username, err)
}

func (s *GitHubService) fetch(ctx context.Context, username string) (model.GitHubContributions, error) {
	userPath := "/users/" + url.PathEscape(username)

	contributions, err := s.get(ctx, userPath+"/contributions")
	if err != nil {
		return model.GitHubContributions{}, err
	}

	// The profile is decoration; the calendar is still served without it.
	user, err := s.get(ctx, userPath)
	if err != nil {
		s.logger.Debug("github user lookup failed", "username", username, "error", err)
	}

	return model.GitHubContributions{
		Success:       true,
		Username:      username,
		Contributions: contributions,
		User:          user,
		Timestamp:     s.now().UTC(),
	}, nil
}

func (s *GitHubService) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", githubUserAgent)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling github: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, githubMaxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading github response: %w", err)
	}
	if len(body) > githubMaxBody {
		return nil, errors.New("github response too large")
	}
	if !json.Valid(body) {
		return nil, errors.New("github response is not JSON")
	}
	return json.RawMessage(body), nil
}

// fallback builds a calendar covering the 53 weeks up to today, busier on
// weekdays, with the first and last week empty.
func (s *GitHubService) fallback(username string, cause error) (model.GitHubContributions, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(calendarWeeks*calendarDays - 1))

	days := make([]model.ContributionDay, 0, calendarWeeks*calendarDays)
	for week := range calendarWeeks {
		for day := range calendarDays {
			intensity := 0
			if week > 0 && week < calendarWeeks-1 {
				if day > 0 && day < 6 {
					if s.intn(10) >= 3 {
						intensity = s.intn(4) + 1
					}
				} else if s.intn(10) >= 7 {
					intensity = s.intn(3) + 1
				}
			}
			days = append(days, model.ContributionDay{
				Week:      week,
				Day:       day,
				Intensity: intensity,
				Date:      start.AddDate(0, 0, week*calendarDays+day).Format(time.DateOnly),
				Color:     contributionColors[intensity],
			})
		}
	}

	raw, err := json.Marshal(days)
	if err != nil {
		return model.GitHubContributions{}, fmt.Errorf("encoding generated calendar: %w", err)
	}
	return model.GitHubContributions{
		Success:       false,
		Username:      username,
		Contributions: raw,
		Error:         cause.Error(),
		Fallback:      true,
		Timestamp:     s.now().UTC(),
	}, nil
}
