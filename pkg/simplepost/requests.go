package simplepost

import "github.com/google/uuid"

// ArchiveMap aggregates the read-only data behind the archive picker UI.
type ArchiveMap struct {
	Sites    []*Site     `json:"sites"`
	Archives []*Archive  `json:"archives"`
	Posts    []*PostInfo `json:"posts"`

	// Current selections.
	SiteID    uuid.UUID `json:"site_id"`
	ArchiveID uuid.UUID `json:"archive_id,omitempty"`
}

// PostTypeInfo is a post type summary for list and picker UIs.
type PostTypeInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PostList is the listing for one archive.
type PostList struct {
	Types      []PostTypeInfo `json:"types"`
	Posts      []*PostInfo    `json:"posts"`
	Categories []*Taxonomy    `json:"categories"`
}
