// Package article provides use cases for the artigo catalog.
// It implements table management, inserts, reads, price updates and deletes,
// each inside its own unit of work.
package article

import (
	"errors"
	"fmt"

	"vacuna-catalog/internal/domain/entity"
)

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that no article has the requested code.
	ErrArticleNotFound = fmt.Errorf("article %w", entity.ErrNotFound)

	// ErrUnknownPrice indicates that an increment was requested for an article
	// whose price is NULL.
	ErrUnknownPrice = errors.New("article price is unknown")
)
