// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"
)

// Sponsor represents a sponsor or partner. Sponsors are listed
// newest-first.
type Sponsor struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	ContactInfo    sql.NullString `json:"contact_info,omitempty"`
	SponsoredEvent sql.NullString `json:"sponsored_event,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ContactInfo is the parsed form of a sponsor's contact field. The
// stored column historically holds either a JSON object or plain text,
// so parsing happens once at the storage boundary with a free-text
// fallback.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	FreeText string `json:"-"`
}

// IsStructured reports whether any structured field is present.
func (c ContactInfo) IsStructured() bool {
	return c.Email != "" || c.Phone != "" || c.Website != ""
}

// IsEmpty reports whether the contact info carries nothing at all.
func (c ContactInfo) IsEmpty() bool {
	return !c.IsStructured() && c.FreeText == ""
}

// ParseContactInfo interprets a raw contact_info value. A JSON object
// with known keys yields structured contact info; anything else is
// kept verbatim as free text.
func ParseContactInfo(raw string) ContactInfo {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ContactInfo{}
	}

	if strings.HasPrefix(raw, "{") {
		var c ContactInfo
		if err := json.Unmarshal([]byte(raw), &c); err == nil && c.IsStructured() {
			return c
		}
	}

	return ContactInfo{FreeText: raw}
}

// Encode returns the canonical stored representation: JSON when
// structured, the raw text otherwise, empty string when empty.
func (c ContactInfo) Encode() string {
	if c.IsStructured() {
		b, err := json.Marshal(c)
		if err != nil {
			return c.FreeText
		}
		return string(b)
	}
	return c.FreeText
}

// Contact returns the sponsor's parsed contact info.
func (s *Sponsor) Contact() ContactInfo {
	if !s.ContactInfo.Valid {
		return ContactInfo{}
	}
	return ParseContactInfo(s.ContactInfo.String)
}
