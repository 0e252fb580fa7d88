// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves contact senders to a country (MaxMind GeoLite2)
// and a browser description (User-Agent parsing).
package geoip

import (
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"

	"github.com/olegiv/portfolio-go/internal/util"
)

// CodeLocal is returned for private and loopback addresses.
const CodeLocal = "LOCAL"

// Lookup handles IP to country lookup using a GeoLite2-Country database.
// A Lookup without a database still classifies local addresses.
type Lookup struct {
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
	enabled   bool
	mu        sync.RWMutex
}

// geoRecord matches the GeoLite2-Country database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup opens the database at dbPath. An empty path disables country
// lookups without error.
func NewLookup(dbPath string) (*Lookup, error) {
	g := &Lookup{dbPath: dbPath}
	if dbPath == "" {
		return g, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.loadDatabase(); err != nil {
		return g, err
	}
	return g, nil
}

// loadDatabase loads or reloads the database. Caller must hold g.mu.
func (g *Lookup) loadDatabase() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		g.enabled = false
		if os.IsNotExist(err) {
			return fmt.Errorf("GeoIP database not found: %s", g.dbPath)
		}
		return fmt.Errorf("GeoIP database stat error: %w", err)
	}

	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}

	if g.db != nil {
		_ = g.db.Close()
		g.db = nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		g.enabled = false
		return fmt.Errorf("failed to open GeoIP database: %w", err)
	}

	g.db = db
	g.dbModTime = info.ModTime()
	g.enabled = true
	return nil
}

// Reload reopens the database if the file changed on disk.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}
	return g.loadDatabase()
}

// LookupCountry returns the ISO country code for ip, CodeLocal for private
// addresses, or "" when unknown.
func (g *Lookup) LookupCountry(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	if util.IsLocalAddress(addr) {
		return CodeLocal
	}

	if g == nil {
		return ""
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.enabled || g.db == nil {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(net.IP(addr.Unmap().AsSlice()), &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// IsEnabled reports whether a database is loaded.
func (g *Lookup) IsEnabled() bool {
	if g == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// Close closes the database.
func (g *Lookup) Close() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		err := g.db.Close()
		g.db = nil
		g.enabled = false
		return err
	}
	return nil
}

var countries = map[string]string{
	CodeLocal: "Local Network",
	"US":      "United States",
	"GB":      "United Kingdom",
	"DE":      "Germany",
	"FR":      "France",
	"ES":      "Spain",
	"IT":      "Italy",
	"NL":      "Netherlands",
	"PL":      "Poland",
	"SE":      "Sweden",
	"UA":      "Ukraine",
	"CA":      "Canada",
	"MX":      "Mexico",
	"BR":      "Brazil",
	"AU":      "Australia",
	"JP":      "Japan",
	"CN":      "China",
	"KR":      "South Korea",
	"IN":      "India",
	"SG":      "Singapore",
	"LK":      "Sri Lanka",
	"ZA":      "South Africa",
	"NG":      "Nigeria",
	"IL":      "Israel",
	"AE":      "United Arab Emirates",
	"TR":      "Turkey",
	"PT":      "Portugal",
	"IE":      "Ireland",
}

// CountryName returns the English name for a country code, the code itself
// when it is not in the table, or "" for an empty code.
func CountryName(code string) string {
	if name, ok := countries[code]; ok {
		return name
	}
	return code
}
