// Package models defines the domain types for Raido.
package models

import "time"

// Link is one outbound reference recorded for a note: the originating
// note key, the raw target exactly as authored, and the type tag that
// decides which validator judges it (e.g. "file", "roam", "https").
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
