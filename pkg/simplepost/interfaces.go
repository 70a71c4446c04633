package simplepost

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for sites, archives, posts and taxonomies.
// Reads that miss return (nil, nil); sentinel errors are reserved for write
// failures. Implementations must serialize concurrent writes to the same
// record themselves (e.g. optimistic concurrency); the service performs no
// compare-and-swap.
type Repository interface {
	// Site operations
	GetDefaultSite(ctx context.Context) (*Site, error)
	ListSites(ctx context.Context) ([]*Site, error)

	// Archive operations
	ListArchives(ctx context.Context, siteID uuid.UUID) ([]*Archive, error)

	// Post operations
	ListPosts(ctx context.Context, archiveID uuid.UUID) ([]*Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*Post, error)
	SavePost(ctx context.Context, post *Post) error
	SaveDraft(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error

	// Taxonomy operations
	ListCategories(ctx context.Context, archiveID uuid.UUID) ([]*Taxonomy, error)
	ListTags(ctx context.Context, archiveID uuid.UUID) ([]*Taxonomy, error)
}

// TypeRegistry resolves content types by id. The service treats it as a
// read-only lookup populated ahead of time.
type TypeRegistry interface {
	GetType(id string) (*ContentType, bool)
	ListTypes() []*ContentType
}

// FieldRegistry resolves field type metadata by field type id.
type FieldRegistry interface {
	GetFieldType(typeID string) (*FieldTypeInfo, bool)
}

// BlockRegistry resolves block type metadata by block type id.
type BlockRegistry interface {
	GetBlockType(typeID string) (*BlockTypeInfo, bool)
}

// Factory constructs runtime instances from registered constructors. The
// record writer depends only on this interface, never on reflection.
type Factory interface {
	// NewPost returns a fresh post with its region map initialized to the
	// schema shape of the given type. Identity and timestamps are not set.
	NewPost(t *ContentType) *Post

	// NewBlock returns a fresh block of the given type, or ErrUnknownBlockType
	// when the type is not registered.
	NewBlock(typeID string) (*Block, error)

	// NewField returns a fresh zero value of the given field type, or
	// ErrUnknownFieldType when the type is not registered.
	NewField(typeID string) (Field, error)
}
