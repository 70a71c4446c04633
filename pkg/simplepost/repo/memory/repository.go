package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-post/pkg/simplepost"
)

// Repository implements simplepost.Repository using in-memory storage. It is
// intended for tests, examples and single-process deployments. Posts are
// deep-copied on the way in and out so callers cannot mutate stored records.
type Repository struct {
	mu           sync.RWMutex
	sites        map[uuid.UUID]*simplepost.Site
	siteOrder    []uuid.UUID
	archives     map[uuid.UUID]*simplepost.Archive
	archiveOrder []uuid.UUID
	posts        map[uuid.UUID]*simplepost.Post
	drafts       map[uuid.UUID]*simplepost.Post
	postOrder    []uuid.UUID
	categories   map[uuid.UUID][]simplepost.Taxonomy // archive id -> categories
	tags         map[uuid.UUID][]simplepost.Taxonomy // archive id -> tags
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		sites:      make(map[uuid.UUID]*simplepost.Site),
		archives:   make(map[uuid.UUID]*simplepost.Archive),
		posts:      make(map[uuid.UUID]*simplepost.Post),
		drafts:     make(map[uuid.UUID]*simplepost.Post),
		categories: make(map[uuid.UUID][]simplepost.Taxonomy),
		tags:       make(map[uuid.UUID][]simplepost.Taxonomy),
	}
}

// AddSite seeds a site. The first site added becomes the default unless a
// later one is explicitly marked default.
func (r *Repository) AddSite(site simplepost.Site) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sites) == 0 {
		site.Default = true
	}
	if _, exists := r.sites[site.ID]; !exists {
		r.siteOrder = append(r.siteOrder, site.ID)
	}
	r.sites[site.ID] = &site
}

// AddArchive seeds an archive page.
func (r *Repository) AddArchive(archive simplepost.Archive) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.archives[archive.ID]; !exists {
		r.archiveOrder = append(r.archiveOrder, archive.ID)
	}
	r.archives[archive.ID] = &archive
}

// AddCategory seeds a category for an archive.
func (r *Repository) AddCategory(archiveID uuid.UUID, category simplepost.Taxonomy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[archiveID] = upsertTaxonomy(r.categories[archiveID], category)
}

// AddTag seeds a tag for an archive.
func (r *Repository) AddTag(archiveID uuid.UUID, tag simplepost.Taxonomy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[archiveID] = upsertTaxonomy(r.tags[archiveID], tag)
}

// Site operations

func (r *Repository) GetDefaultSite(ctx context.Context) (*simplepost.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.siteOrder {
		if site := r.sites[id]; site.Default {
			siteCopy := *site
			return &siteCopy, nil
		}
	}
	return nil, nil
}

func (r *Repository) ListSites(ctx context.Context) ([]*simplepost.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*simplepost.Site, 0, len(r.siteOrder))
	for _, id := range r.siteOrder {
		siteCopy := *r.sites[id]
		out = append(out, &siteCopy)
	}
	return out, nil
}

// Archive operations

func (r *Repository) ListArchives(ctx context.Context, siteID uuid.UUID) ([]*simplepost.Archive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*simplepost.Archive
	for _, id := range r.archiveOrder {
		if archive := r.archives[id]; archive.SiteID == siteID {
			archiveCopy := *archive
			out = append(out, &archiveCopy)
		}
	}
	return out, nil
}

// Post operations

func (r *Repository) ListPosts(ctx context.Context, archiveID uuid.UUID) ([]*simplepost.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*simplepost.Post
	for _, id := range r.postOrder {
		if post := r.posts[id]; post.ArchiveID == archiveID {
			out = append(out, post.Clone())
		}
	}
	return out, nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*simplepost.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, nil
	}
	return post.Clone(), nil
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*simplepost.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, exists := r.drafts[id]
	if !exists {
		return nil, nil
	}
	return draft.Clone(), nil
}

func (r *Repository) SavePost(ctx context.Context, post *simplepost.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; !exists {
		r.postOrder = append(r.postOrder, post.ID)
	}
	r.posts[post.ID] = post.Clone()

	// Publishing supersedes any stored draft revision.
	delete(r.drafts, post.ID)

	r.registerTaxonomies(post)
	return nil
}

func (r *Repository) SaveDraft(ctx context.Context, post *simplepost.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A draft of a never-published post still shows up in listings.
	if _, exists := r.posts[post.ID]; !exists {
		r.postOrder = append(r.postOrder, post.ID)
		r.posts[post.ID] = post.Clone()
	}
	r.drafts[post.ID] = post.Clone()

	r.registerTaxonomies(post)
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	delete(r.drafts, id)
	for i, orderID := range r.postOrder {
		if orderID == id {
			r.postOrder = append(r.postOrder[:i], r.postOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Taxonomy operations

func (r *Repository) ListCategories(ctx context.Context, archiveID uuid.UUID) ([]*simplepost.Taxonomy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyTaxonomies(r.categories[archiveID]), nil
}

func (r *Repository) ListTags(ctx context.Context, archiveID uuid.UUID) ([]*simplepost.Taxonomy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyTaxonomies(r.tags[archiveID]), nil
}

// registerTaxonomies merges a saved post's category and tags into the
// archive's taxonomy sets, keyed by slug.
func (r *Repository) registerTaxonomies(post *simplepost.Post) {
	if post.Category.Title != "" {
		r.categories[post.ArchiveID] = upsertTaxonomy(r.categories[post.ArchiveID], post.Category)
	}
	for _, tag := range post.Tags {
		r.tags[post.ArchiveID] = upsertTaxonomy(r.tags[post.ArchiveID], tag)
	}
}

func upsertTaxonomy(list []simplepost.Taxonomy, taxonomy simplepost.Taxonomy) []simplepost.Taxonomy {
	for _, existing := range list {
		if existing.Slug == taxonomy.Slug {
			return list
		}
	}
	return append(list, taxonomy)
}

func copyTaxonomies(list []simplepost.Taxonomy) []*simplepost.Taxonomy {
	out := make([]*simplepost.Taxonomy, 0, len(list))
	for _, taxonomy := range list {
		taxonomyCopy := taxonomy
		out = append(out, &taxonomyCopy)
	}
	return out
}
