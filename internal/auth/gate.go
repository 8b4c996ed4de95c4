// Package auth implements the credential gate over the singleton security
// row: first login sets the password, later logins verify against it.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"daftar/internal/core"
	"daftar/internal/storage"
)

// Outcome reports how a login attempt was resolved.
type Outcome int

const (
	// Granted means the candidate matched the stored credential.
	Granted Outcome = iota
	// NewlySet means no credential existed and the candidate became it.
	NewlySet
)

// Gate checks and maintains the single stored password hash. There is no
// lockout or attempt counting: any number of attempts is allowed, which is
// a documented weakness of the original contract, not a feature.
type Gate struct {
	store *storage.SQLiteStore
}

func NewGate(store *storage.SQLiteStore) *Gate {
	return &Gate{store: store}
}

// BootstrapOrVerify verifies candidate against the stored hash. On an
// empty store it instead stores the candidate's digest and reports NewlySet.
// A mismatch returns core.ErrDenied.
func (g *Gate) BootstrapOrVerify(ctx context.Context, candidate string) (Outcome, error) {
	stored, err := g.store.GetPasswordHash(ctx)
	if errors.Is(err, core.ErrNotFound) {
		if err := g.store.InTx(ctx, func(q *storage.Queries) error {
			return q.ReplacePasswordHash(ctx, digest(candidate))
		}); err != nil {
			return 0, fmt.Errorf("bootstrap credential: %w", err)
		}
		slog.InfoContext(ctx, "Credential bootstrapped")
		return NewlySet, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load credential: %w", err)
	}

	if digest(candidate) != stored {
		return 0, core.ErrDenied
	}
	return Granted, nil
}

// Change replaces the stored credential, but only when old verifies against
// it. The swap is a delete-then-insert inside one transaction so no moment
// exists where two hashes are valid.
func (g *Gate) Change(ctx context.Context, old, new string) error {
	stored, err := g.store.GetPasswordHash(ctx)
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrDenied
	}
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if digest(old) != stored {
		return core.ErrDenied
	}

	if err := g.store.InTx(ctx, func(q *storage.Queries) error {
		return q.ReplacePasswordHash(ctx, digest(new))
	}); err != nil {
		return fmt.Errorf("replace credential: %w", err)
	}
	slog.InfoContext(ctx, "Credential changed")
	return nil
}

func digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
