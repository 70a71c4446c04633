package simplepost

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-post library. It is an
// in-process boundary: the request and response shapes are the contract.
type Service interface {
	// GetArchiveMap aggregates sites, archives and posts for a picker UI.
	// A nil siteID selects the default site; a nil archiveID selects the
	// site's first archive. Returns (nil, nil) when no site resolves.
	GetArchiveMap(ctx context.Context, siteID, archiveID *uuid.UUID) (*ArchiveMap, error)

	// GetList returns the post listing for one archive together with the
	// registered post types and the archive's categories.
	GetList(ctx context.Context, archiveID uuid.UUID) (*PostList, error)

	// GetByID loads a post and transforms it into an edit model. With
	// useDraft the draft revision is preferred when one exists. Returns
	// (nil, nil) when the post does not exist.
	GetByID(ctx context.Context, id uuid.UUID, useDraft bool) (*PostEditModel, error)

	// Create builds the edit model for a new, unsaved post of the given
	// type. Returns (nil, nil) when the type id is not registered.
	Create(ctx context.Context, archiveID uuid.UUID, typeID string) (*PostEditModel, error)

	// Save writes an edited model back onto the record and persists it via
	// the draft or publish path. Fails with ErrInvalidPostType when the
	// model's type id does not resolve; no mutation occurs in that case.
	Save(ctx context.Context, model *PostEditModel, draft bool) error

	// Delete removes a post.
	Delete(ctx context.Context, id uuid.UUID) error
}
