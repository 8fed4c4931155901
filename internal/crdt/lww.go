// Package crdt holds the ordering primitives shared by backends and the sync
// core: a Lamport clock for change cursors and the last-write-wins rule.
package crdt

import "github.com/iudanet/screensync/internal/models"

// Newer reports whether a wins over b under last-write-wins:
//  1. later UpdatedAt wins
//  2. equal UpdatedAt - higher Version wins
//  3. still equal - lexicographically larger payload checksum wins (deterministic)
//
// A nil entity always loses.
func Newer(a, b *models.Entity) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	case a.UpdatedAt.After(b.UpdatedAt):
		return true
	case a.UpdatedAt.Before(b.UpdatedAt):
		return false
	case a.Version != b.Version:
		return a.Version > b.Version
	default:
		return a.Checksum() > b.Checksum()
	}
}

// Winner returns whichever side wins under Newer. Ties (identical content)
// resolve to remote so an already-stored version is kept.
func Winner(local, remote *models.Entity) *models.Entity {
	if Newer(local, remote) {
		return local
	}
	return remote
}

// ResolveLWW maps the last-write-wins decision onto a conflict resolution.
func ResolveLWW(c *models.ConflictCase) models.Resolution {
	if Winner(c.Local, c.Remote) == c.Local {
		return models.UseLocal()
	}
	return models.UseRemote()
}
