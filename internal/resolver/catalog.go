package resolver

import (
	"context"

	"github.com/vmunix/animeta/pkg/bangumi"
)

//go:generate mockgen -source=catalog.go -destination=mocks/catalog.go -package=mocks

// Catalog is the slice of the catalog surface the resolver needs.
type Catalog interface {
	// SearchSubjects returns results in the catalog's own order.
	SearchSubjects(ctx context.Context, keyword string, typ bangumi.SubjectType) ([]bangumi.Subject, error)
	// SearchSubjectsRanked returns results best first with 0-100 scores.
	SearchSubjectsRanked(ctx context.Context, keyword string, typ bangumi.SubjectType) ([]bangumi.SearchCandidate, error)
	// GetNextSubject returns the season chronologically following previousID,
	// or bangumi.ErrNotFound.
	GetNextSubject(ctx context.Context, previousID int) (*bangumi.Subject, error)
}
