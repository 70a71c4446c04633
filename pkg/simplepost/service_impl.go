package simplepost

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repo    Repository
	types   TypeRegistry
	fields  FieldRegistry
	blocks  BlockRegistry
	factory Factory
	logger  *slog.Logger
	tr      *Transformer
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithTypeRegistry sets the content-type registry for the service
func WithTypeRegistry(types TypeRegistry) Option {
	return func(s *service) {
		s.types = types
	}
}

// WithFieldRegistry sets the field-type registry for the service
func WithFieldRegistry(fields FieldRegistry) Option {
	return func(s *service) {
		s.fields = fields
	}
}

// WithBlockRegistry sets the block-type registry for the service
func WithBlockRegistry(blocks BlockRegistry) Option {
	return func(s *service) {
		s.blocks = blocks
	}
}

// WithFactory overrides the default registry-backed instance factory
func WithFactory(factory Factory) Option {
	return func(s *service) {
		s.factory = factory
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.types == nil {
		return nil, fmt.Errorf("type registry is required")
	}
	if s.fields == nil {
		return nil, fmt.Errorf("field registry is required")
	}
	if s.blocks == nil {
		return nil, fmt.Errorf("block registry is required")
	}
	if s.factory == nil {
		s.factory = NewFactory(s.fields, s.blocks)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.tr = NewTransformer(s.fields, s.blocks, s.factory, s.logger)

	return s, nil
}

func (s *service) GetArchiveMap(ctx context.Context, siteID, archiveID *uuid.UUID) (*ArchiveMap, error) {
	sites, err := s.repo.ListSites(ctx)
	if err != nil {
		return nil, err
	}

	var site *Site
	if siteID != nil {
		for _, candidate := range sites {
			if candidate.ID == *siteID {
				site = candidate
				break
			}
		}
	} else {
		if site, err = s.repo.GetDefaultSite(ctx); err != nil {
			return nil, err
		}
	}
	if site == nil {
		return nil, nil
	}

	archives, err := s.repo.ListArchives(ctx, site.ID)
	if err != nil {
		return nil, err
	}

	var archive *Archive
	if archiveID != nil {
		for _, candidate := range archives {
			if candidate.ID == *archiveID {
				archive = candidate
				break
			}
		}
	} else if len(archives) > 0 {
		archive = archives[0]
	}

	m := &ArchiveMap{
		Sites:    sites,
		Archives: archives,
		SiteID:   site.ID,
	}
	if archive != nil {
		m.ArchiveID = archive.ID
		if m.Posts, err = s.listPosts(ctx, archive.ID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *service) GetList(ctx context.Context, archiveID uuid.UUID) (*PostList, error) {
	posts, err := s.listPosts(ctx, archiveID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx, archiveID)
	if err != nil {
		return nil, err
	}

	registered := s.types.ListTypes()
	types := make([]PostTypeInfo, 0, len(registered))
	for _, t := range registered {
		types = append(types, PostTypeInfo{ID: t.ID, Title: t.Title})
	}

	return &PostList{
		Types:      types,
		Posts:      posts,
		Categories: categories,
	}, nil
}

func (s *service) listPosts(ctx context.Context, archiveID uuid.UUID) ([]*PostInfo, error) {
	posts, err := s.repo.ListPosts(ctx, archiveID)
	if err != nil {
		return nil, err
	}
	out := make([]*PostInfo, 0, len(posts))
	for _, p := range posts {
		info := &PostInfo{
			ID:        p.ID,
			Title:     p.Title,
			TypeID:    p.TypeID,
			Category:  p.Category.Title,
			Published: p.Published,
			State:     GetState(p, false),
		}
		if t, ok := s.types.GetType(p.TypeID); ok {
			info.TypeTitle = t.Title
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID, useDraft bool) (*PostEditModel, error) {
	var post *Post
	var err error
	if useDraft {
		if post, err = s.repo.GetDraft(ctx, id); err != nil {
			return nil, err
		}
	}
	if post == nil {
		if post, err = s.repo.GetPost(ctx, id); err != nil {
			return nil, err
		}
	}
	if post == nil {
		return nil, nil
	}

	typ, ok := s.types.GetType(post.TypeID)
	if !ok {
		return nil, &PostError{PostID: id, Op: "load", Err: ErrInvalidPostType}
	}
	return s.transform(post, typ, useDraft), nil
}

func (s *service) Create(ctx context.Context, archiveID uuid.UUID, typeID string) (*PostEditModel, error) {
	typ, ok := s.types.GetType(typeID)
	if !ok {
		return nil, nil
	}
	post := s.factory.NewPost(typ)
	post.ID = uuid.New()
	post.ArchiveID = archiveID
	return s.transform(post, typ, false), nil
}

// transform builds the complete edit model for a post: scalars, regions in
// declared order, blocks, custom editors and lifecycle state.
func (s *service) transform(post *Post, typ *ContentType, useDraft bool) *PostEditModel {
	m := &PostEditModel{
		ID:              post.ID,
		ArchiveID:       post.ArchiveID,
		TypeID:          post.TypeID,
		Title:           post.Title,
		Slug:            post.Slug,
		MetaKeywords:    post.MetaKeywords,
		MetaDescription: post.MetaDescription,
		Published:       FormatPublishDate(post.Published),
		RedirectURL:     post.RedirectURL,
		RedirectType:    post.RedirectType,
		Category:        post.Category.Title,
		State:           GetState(post, useDraft),
		UseBlocks:       typ.UseBlocks,
		Regions:         make([]RegionModel, 0, len(typ.Regions)),
	}
	for _, tag := range post.Tags {
		m.Tags = append(m.Tags, tag.Title)
	}
	for _, def := range typ.Regions {
		m.Regions = append(m.Regions, s.tr.Region(def, post.Regions[def.ID]))
	}
	if typ.UseBlocks {
		m.Blocks = s.tr.Blocks(post.Blocks)
	}
	for _, ed := range typ.Editors {
		m.Editors = append(m.Editors, EditorModel{
			Component: ed.Component,
			Icon:      ed.Icon,
			Title:     ed.Title,
		})
	}
	return m
}

func (s *service) Save(ctx context.Context, model *PostEditModel, draft bool) error {
	typ, ok := s.types.GetType(model.TypeID)
	if !ok {
		return &PostError{PostID: model.ID, Op: "save", Err: ErrInvalidPostType}
	}

	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}

	post, err := s.repo.GetPost(ctx, model.ID)
	if err != nil {
		return err
	}
	if post == nil {
		post = s.factory.NewPost(typ)
		post.ID = model.ID
	}

	post.ArchiveID = model.ArchiveID
	post.TypeID = model.TypeID
	post.Title = model.Title
	post.Slug = model.Slug
	if post.Slug == "" {
		post.Slug = Slugify(model.Title)
	}
	post.MetaKeywords = model.MetaKeywords
	post.MetaDescription = model.MetaDescription
	post.RedirectURL = model.RedirectURL
	post.RedirectType = model.RedirectType

	published, err := ParsePublishDate(model.Published)
	if err != nil {
		return &PostError{PostID: post.ID, Op: "save", Err: err}
	}
	post.Published = published

	// Taxonomy identity is label-based in the write path: category and tags
	// are rebuilt fresh from the model's selected labels.
	post.Category = Taxonomy{}
	if model.Category != "" {
		post.Category = NewTaxonomy(model.Category)
	}
	post.Tags = nil
	for _, label := range model.Tags {
		if label != "" {
			post.Tags = append(post.Tags, NewTaxonomy(label))
		}
	}

	if err := s.tr.ApplyRegions(post, typ, model.Regions); err != nil {
		return &PostError{PostID: post.ID, Op: "save", Err: err}
	}
	if typ.UseBlocks {
		s.tr.ApplyBlocks(post, model.Blocks)
	}

	now := time.Now().UTC()
	if post.Created.IsZero() {
		post.Created = now
	}
	post.Updated = now

	if draft {
		err = s.repo.SaveDraft(ctx, post)
	} else {
		err = s.repo.SavePost(ctx, post)
	}
	if err != nil {
		return &PostError{PostID: post.ID, Op: "save", Err: err}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return &PostError{PostID: id, Op: "delete", Err: err}
	}
	return nil
}
