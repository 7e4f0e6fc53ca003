// Package models defines the domain types for Dealerdesk.
package models

import "time"

// DefaultUnit is the price unit used when an entry leaves it blank.
const DefaultUnit = "per quintal"

// PriceEntry is one paddy variety a dealer trades in, with its quoted price.
// The JSON tags mirror the keys of the embedded dealersData array exactly.
type PriceEntry struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Unit  string `json:"unit"`
}

// Dealer represents one supplier in the published directory page.
// Field order matters: it is the serialization order inside the page.
type Dealer struct {
	Name       string       `json:"name"`
	Contact    string       `json:"contact"`
	Rating     string       `json:"rating"`
	Regions    []string     `json:"regions"`
	PaddyTypes []PriceEntry `json:"paddyTypes"`
}

// RemoteFile is the decoded result of fetching the directory page from the
// hosting API: the full page text plus the opaque version token (blob sha)
// required on the next write.
type RemoteFile struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// DocumentStatus is a lightweight view of the working session.
type DocumentStatus struct {
	SHA       string    `json:"sha"`
	Checksum  string    `json:"checksum"`
	Dealers   int       `json:"dealers"`
	Regions   int       `json:"regions"`
	Dirty     bool      `json:"dirty"`
	FetchedAt time.Time `json:"fetched_at"`
	Warnings  []string  `json:"warnings,omitempty"`
}
