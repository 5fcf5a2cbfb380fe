// Package cache holds the upsert engines for the ERP mirror tables. One
// engine per entity type; each call performs exactly one write (full upsert
// or metadata touch) or none at all for rejected records.
package cache

// Result tells the orchestrator what a single upsert did.
type Result int

const (
	// Rejected: required key fields missing/empty, nothing written.
	Rejected Result = iota
	// Unchanged: stored fingerprint matched, only sync metadata refreshed.
	Unchanged
	// Changed: row inserted or fully rewritten.
	Changed
)

func (r Result) String() string {
	switch r {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	default:
		return "rejected"
	}
}
