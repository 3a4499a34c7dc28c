// Package storage holds the sentinel errors shared by every LeadStore
// implementation (SurrealDB-backed and in-memory alike).
package storage

import "errors"

// ErrDuplicateKey is returned by LeadStore.Create when a lead's email or
// phone collides with an existing lead.
var ErrDuplicateKey = errors.New("storage: duplicate key")

// ErrLeadNotFound is returned by LeadStore.Get/AdvanceIfCurrent when no lead
// exists for the given id.
var ErrLeadNotFound = errors.New("storage: lead not found")
