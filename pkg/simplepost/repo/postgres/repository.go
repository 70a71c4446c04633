package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-post/pkg/simplepost"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplepost.Repository using PostgreSQL. The dynamic
// parts of a post (regions, blocks) are stored as JSONB documents and decoded
// through the registry-driven codec.
type Repository struct {
	db    DBTX
	codec *simplepost.Codec
}

// New creates a new PostgreSQL repository. The field registry is needed to
// decode stored region and block documents back into concrete field types.
func New(db DBTX, fields simplepost.FieldRegistry) *Repository {
	return &Repository{db: db, codec: simplepost.NewCodec(fields)}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool, fields simplepost.FieldRegistry) *Repository {
	return New(pool, fields)
}

// EnsureSchema creates the tables the repository needs if they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return r.handlePostgresError("ensure schema", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Site operations

func (r *Repository) GetDefaultSite(ctx context.Context) (*simplepost.Site, error) {
	query := `
        SELECT id, title, hostname, is_default
        FROM site WHERE is_default ORDER BY title LIMIT 1`

	site, err := scanSite(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, r.handlePostgresError("get default site", err)
	}
	return site, nil
}

func (r *Repository) ListSites(ctx context.Context) ([]*simplepost.Site, error) {
	query := `
        SELECT id, title, hostname, is_default
        FROM site ORDER BY title`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list sites", err)
	}
	defer rows.Close()

	var out []*simplepost.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, r.handlePostgresError("list sites", err)
		}
		out = append(out, site)
	}
	return out, rows.Err()
}

func scanSite(row pgx.Row) (*simplepost.Site, error) {
	var site simplepost.Site
	if err := row.Scan(&site.ID, &site.Title, &site.Hostname, &site.Default); err != nil {
		return nil, err
	}
	return &site, nil
}

// Archive operations

func (r *Repository) ListArchives(ctx context.Context, siteID uuid.UUID) ([]*simplepost.Archive, error) {
	query := `
        SELECT id, site_id, title, slug
        FROM archive WHERE site_id = $1 ORDER BY title`

	rows, err := r.db.Query(ctx, query, siteID)
	if err != nil {
		return nil, r.handlePostgresError("list archives", err)
	}
	defer rows.Close()

	var out []*simplepost.Archive
	for rows.Next() {
		var archive simplepost.Archive
		if err := rows.Scan(&archive.ID, &archive.SiteID, &archive.Title, &archive.Slug); err != nil {
			return nil, r.handlePostgresError("list archives", err)
		}
		out = append(out, &archive)
	}
	return out, rows.Err()
}

// Post operations

const postColumns = `
    id, archive_id, type_id, title, slug, meta_keywords, meta_description,
    published, redirect_url, redirect_type, category, tags, regions, blocks,
    created, updated`

func (r *Repository) ListPosts(ctx context.Context, archiveID uuid.UUID) ([]*simplepost.Post, error) {
	query := `SELECT ` + postColumns + ` FROM post WHERE archive_id = $1 ORDER BY created`

	rows, err := r.db.Query(ctx, query, archiveID)
	if err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}
	defer rows.Close()

	var out []*simplepost.Post
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, r.handlePostgresError("list posts", err)
		}
		out = append(out, post)
	}
	return out, rows.Err()
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*simplepost.Post, error) {
	query := `SELECT ` + postColumns + ` FROM post WHERE id = $1`
	return r.getPost(ctx, query, id, "get post")
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*simplepost.Post, error) {
	query := `SELECT ` + postColumns + ` FROM post_draft WHERE id = $1`
	return r.getPost(ctx, query, id, "get draft")
}

func (r *Repository) getPost(ctx context.Context, query string, id uuid.UUID, operation string) (*simplepost.Post, error) {
	post, err := r.scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, r.handlePostgresError(operation, err)
	}
	return post, nil
}

func (r *Repository) scanPost(row pgx.Row) (*simplepost.Post, error) {
	var post simplepost.Post
	var category, tags, regions, blocks []byte
	err := row.Scan(
		&post.ID, &post.ArchiveID, &post.TypeID, &post.Title, &post.Slug,
		&post.MetaKeywords, &post.MetaDescription, &post.Published,
		&post.RedirectURL, &post.RedirectType, &category, &tags,
		&regions, &blocks, &post.Created, &post.Updated)
	if err != nil {
		return nil, err
	}

	if err := unmarshalTaxonomies(category, tags, &post); err != nil {
		return nil, err
	}
	if post.Regions, err = r.codec.DecodeRegions(regions); err != nil {
		return nil, fmt.Errorf("decode regions for post %s: %w", post.ID, err)
	}
	if post.Blocks, err = r.codec.DecodeBlocks(blocks); err != nil {
		return nil, fmt.Errorf("decode blocks for post %s: %w", post.ID, err)
	}
	return &post, nil
}

func (r *Repository) SavePost(ctx context.Context, post *simplepost.Post) error {
	if err := r.upsertPost(ctx, "post", post); err != nil {
		return err
	}

	// Publishing supersedes any stored draft revision.
	if _, err := r.db.Exec(ctx, `DELETE FROM post_draft WHERE id = $1`, post.ID); err != nil {
		return r.handlePostgresError("save post", err)
	}
	return r.saveTaxonomies(ctx, post)
}

func (r *Repository) SaveDraft(ctx context.Context, post *simplepost.Post) error {
	if err := r.upsertPost(ctx, "post_draft", post); err != nil {
		return err
	}

	// A draft of a never-published post still shows up in listings.
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM post WHERE id = $1)`, post.ID).Scan(&exists)
	if err != nil {
		return r.handlePostgresError("save draft", err)
	}
	if !exists {
		if err := r.upsertPost(ctx, "post", post); err != nil {
			return err
		}
	}
	return r.saveTaxonomies(ctx, post)
}

func (r *Repository) upsertPost(ctx context.Context, table string, post *simplepost.Post) error {
	regions, err := r.codec.EncodeRegions(post.Regions)
	if err != nil {
		return fmt.Errorf("encode regions for post %s: %w", post.ID, err)
	}
	blocks, err := r.codec.EncodeBlocks(post.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks for post %s: %w", post.ID, err)
	}
	category, tags, err := marshalTaxonomies(post)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO ` + table + ` (` + postColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        ON CONFLICT (id) DO UPDATE SET
            archive_id = EXCLUDED.archive_id,
            type_id = EXCLUDED.type_id,
            title = EXCLUDED.title,
            slug = EXCLUDED.slug,
            meta_keywords = EXCLUDED.meta_keywords,
            meta_description = EXCLUDED.meta_description,
            published = EXCLUDED.published,
            redirect_url = EXCLUDED.redirect_url,
            redirect_type = EXCLUDED.redirect_type,
            category = EXCLUDED.category,
            tags = EXCLUDED.tags,
            regions = EXCLUDED.regions,
            blocks = EXCLUDED.blocks,
            updated = EXCLUDED.updated`

	_, err = r.db.Exec(ctx, query,
		post.ID, post.ArchiveID, post.TypeID, post.Title, post.Slug,
		post.MetaKeywords, post.MetaDescription, post.Published,
		post.RedirectURL, post.RedirectType, category, tags,
		regions, blocks, post.Created, post.Updated)
	if err != nil {
		return r.handlePostgresError("save "+table, err)
	}
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_draft WHERE id = $1`, id); err != nil {
		return r.handlePostgresError("delete post", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM post WHERE id = $1`, id); err != nil {
		return r.handlePostgresError("delete post", err)
	}
	return nil
}

// Taxonomy operations

func (r *Repository) ListCategories(ctx context.Context, archiveID uuid.UUID) ([]*simplepost.Taxonomy, error) {
	return r.listTaxonomies(ctx, "category", archiveID)
}

func (r *Repository) ListTags(ctx context.Context, archiveID uuid.UUID) ([]*simplepost.Taxonomy, error) {
	return r.listTaxonomies(ctx, "tag", archiveID)
}

func (r *Repository) listTaxonomies(ctx context.Context, table string, archiveID uuid.UUID) ([]*simplepost.Taxonomy, error) {
	query := `SELECT id, title, slug FROM ` + table + ` WHERE archive_id = $1 ORDER BY title`

	rows, err := r.db.Query(ctx, query, archiveID)
	if err != nil {
		return nil, r.handlePostgresError("list "+table, err)
	}
	defer rows.Close()

	var out []*simplepost.Taxonomy
	for rows.Next() {
		var taxonomy simplepost.Taxonomy
		if err := rows.Scan(&taxonomy.ID, &taxonomy.Title, &taxonomy.Slug); err != nil {
			return nil, r.handlePostgresError("list "+table, err)
		}
		out = append(out, &taxonomy)
	}
	return out, rows.Err()
}

// saveTaxonomies merges a saved post's category and tags into the archive's
// taxonomy sets, keyed by slug.
func (r *Repository) saveTaxonomies(ctx context.Context, post *simplepost.Post) error {
	upsert := func(table string, taxonomy simplepost.Taxonomy) error {
		query := `
            INSERT INTO ` + table + ` (id, archive_id, title, slug)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (archive_id, slug) DO NOTHING`
		_, err := r.db.Exec(ctx, query, taxonomy.ID, post.ArchiveID, taxonomy.Title, taxonomy.Slug)
		if err != nil {
			return r.handlePostgresError("save "+table, err)
		}
		return nil
	}

	if post.Category.Title != "" {
		if err := upsert("category", post.Category); err != nil {
			return err
		}
	}
	for _, tag := range post.Tags {
		if err := upsert("tag", tag); err != nil {
			return err
		}
	}
	return nil
}
