// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ContactMessage is a visitor message. It lives for one request and is
// handed to the email provider, never stored.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// SenderMeta describes where a contact message came from.
// All fields are best effort and may be empty.
type SenderMeta struct {
	IP      string
	Country string
	Browser string
	OS      string
	Device  string
}
