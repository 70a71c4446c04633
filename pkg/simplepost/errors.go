package simplepost

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrInvalidPostType indicates a save referenced a type id that does not
	// resolve in the type registry. The write is rejected before any mutation.
	ErrInvalidPostType = errors.New("invalid post type")

	// ErrRegionNotFound indicates a declared region was missing from an edit
	// model, i.e. the model has drifted from the schema.
	ErrRegionNotFound = errors.New("region not found")

	// ErrFieldNotFound indicates a declared field was missing from a region
	// item of an edit model.
	ErrFieldNotFound = errors.New("field not found")

	// ErrUnknownBlockType indicates a block type is not registered. During a
	// save the offending block is dropped; the save itself proceeds.
	ErrUnknownBlockType = errors.New("unknown block type")

	// ErrUnknownFieldType indicates a field type is not registered.
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrInvalidPublishDate indicates a publish date string could not be parsed.
	ErrInvalidPublishDate = errors.New("invalid publish date")

	// ErrSiteNotFound indicates a site was not found.
	ErrSiteNotFound = errors.New("site not found")

	// ErrArchiveNotFound indicates an archive page was not found.
	ErrArchiveNotFound = errors.New("archive not found")
)

// PostError represents an error related to post operations
type PostError struct {
	PostID uuid.UUID
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}
