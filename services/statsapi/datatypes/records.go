// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the wire-level records served by the stats API.
//
// The four snapshot tables (provider attributes, provider stats, client
// attributes, client stats) are parsed into the typed records in this
// package at load time. Statistics payloads are deliberately opaque: they
// are carried as raw JSON and re-emitted verbatim, never inspected.
//
// Attributes records are the authoritative existence signal for an entity.
// A stats record may exist for an id that has no attributes record; such a
// record is reachable only through the stats-only queries.
package datatypes

import "encoding/json"

// =============================================================================
// Provider Records
// =============================================================================

// ProviderRelationships holds the relationship block of a provider record.
// Clients preserves the order declared in the snapshot.
type ProviderRelationships struct {
	Clients []string `json:"clients,omitempty"`
}

// ProviderAttributes is the descriptive record for a provider.
//
// Only ID is required; every other field is optional and omitted from JSON
// output when empty.
type ProviderAttributes struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name,omitempty"`
	Symbol        string                 `json:"symbol,omitempty"`
	Region        string                 `json:"region,omitempty"`
	Country       string                 `json:"country,omitempty"`
	Year          int                    `json:"year,omitempty"`
	MemberType    string                 `json:"member_type,omitempty"`
	ContactEmail  string                 `json:"contact_email,omitempty"`
	Website       string                 `json:"website,omitempty"`
	Relationships *ProviderRelationships `json:"relationships,omitempty"`
}

// ClientIDs returns the declared client ids, in snapshot order.
// Returns nil when the record carries no relationship block.
func (p ProviderAttributes) ClientIDs() []string {
	if p.Relationships == nil {
		return nil
	}
	return p.Relationships.Clients
}

// Provider is the merged view of a provider: its attributes record plus, if
// one exists, the stats payload of the matching stats record. Merging builds
// a new Provider value; the indexed attributes record is never modified.
type Provider struct {
	ProviderAttributes
	Stats json.RawMessage `json:"stats,omitempty"`
}

// =============================================================================
// Client Records
// =============================================================================

// ClientRelationships holds the relationship block of a client record.
// Provider optionally names the owning provider's id.
type ClientRelationships struct {
	Provider string `json:"provider,omitempty"`
}

// ClientAttributes is the descriptive record for a client.
type ClientAttributes struct {
	ID            string               `json:"id"`
	Name          string               `json:"name,omitempty"`
	Symbol        string               `json:"symbol,omitempty"`
	Year          int                  `json:"year,omitempty"`
	Domains       string               `json:"domains,omitempty"`
	ClientType    string               `json:"client_type,omitempty"`
	Relationships *ClientRelationships `json:"relationships,omitempty"`
}

// Client is the merged view of a client, mirroring Provider.
type Client struct {
	ClientAttributes
	Stats json.RawMessage `json:"stats,omitempty"`
}

// =============================================================================
// Stats Records
// =============================================================================

// StatsRecord is a statistics record for either entity kind. Stats is an
// opaque payload whose structure is owned by the snapshot producer.
type StatsRecord struct {
	ID    string          `json:"id"`
	Stats json.RawMessage `json:"stats,omitempty"`
}
