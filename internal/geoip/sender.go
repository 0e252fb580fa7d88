// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"github.com/mileusna/useragent"

	"github.com/olegiv/portfolio-go/internal/model"
)

// Describe builds the sender details shown in the contact email footer.
// Unknown values are left empty so the footer omits them.
func (g *Lookup) Describe(ip, userAgent string) model.SenderMeta {
	meta := model.SenderMeta{
		IP:      ip,
		Country: CountryName(g.LookupCountry(ip)),
	}
	if userAgent == "" {
		return meta
	}

	ua := useragent.Parse(userAgent)
	meta.Browser = ua.Name
	if ua.Name != "" && ua.Version != "" {
		meta.Browser = ua.Name + " " + ua.Version
	}
	meta.OS = ua.OS

	switch {
	case ua.Bot:
		meta.Device = "bot"
	case ua.Tablet:
		meta.Device = "tablet"
	case ua.Mobile:
		meta.Device = "mobile"
	case ua.Desktop:
		meta.Device = "desktop"
	}
	return meta
}
