// Package filestore abstracts the remote store holding the actual picture
// bytes. The relational picture ledger is the source of truth; the store is a
// mirror the orchestrator forces back into agreement after every mutation.
// Nothing outside the orchestrator writes to it.
package filestore

import (
	"context"
	"io"
)

// Store is the capability set over the remote picture store. The namespace is
// flat: names are full object names (base name plus extension), no
// subdirectories. Implementations must be safe for concurrent use across
// components and idempotent-safe to retry: a Move retried after a transient
// failure must detect the already-completed state (new name exists, old name
// absent) and report success.
type Store interface {
	// Upload writes a new object and returns its public URL. Fails with
	// apperr.CodeNameConflict if the name is already occupied and
	// apperr.CodeStorageUnavailable on network/auth failure.
	Upload(ctx context.Context, name string, r io.Reader) (string, error)

	// Delete removes an object. Missing objects fail with
	// apperr.CodeNotFound, which callers may downgrade.
	Delete(ctx context.Context, name string) error

	// Move renames an object and returns the public URL of the new name.
	// Fails with apperr.CodeNotFound if oldName is absent and
	// apperr.CodeNameConflict if newName is occupied by an unrelated object.
	Move(ctx context.Context, oldName, newName string) (string, error)

	// Exists reports whether an object occupies the name.
	Exists(ctx context.Context, name string) (bool, error)

	// URL returns the public URL an object would have under the name.
	URL(name string) string
}
