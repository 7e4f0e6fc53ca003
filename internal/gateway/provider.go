// Package gateway reads and writes the published directory page through the
// GitHub contents API.
package gateway

import (
	"context"

	"github.com/bishnuhaldar/dealerdesk/internal/models"
)

// Provider is the interface for remote file operations.
type Provider interface {
	// Fetch retrieves the current page text and its version token (blob sha).
	Fetch(ctx context.Context) (*models.RemoteFile, error)
	// Update replaces the page, keyed by the version token obtained from the
	// last Fetch. It returns the new token on success. A stale token yields
	// apperr.ErrConflict; the caller must Fetch again before retrying.
	Update(ctx context.Context, content, sha, message string) (string, error)
}
