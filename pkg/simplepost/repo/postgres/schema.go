package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/tendant/simple-post/pkg/simplepost"
)

// schema is the DDL applied by EnsureSchema. Deployments with their own
// migration tooling can apply the equivalent migrations instead.
const schema = `
CREATE TABLE IF NOT EXISTS site (
    id          UUID PRIMARY KEY,
    title       TEXT NOT NULL,
    hostname    TEXT NOT NULL DEFAULT '',
    is_default  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS archive (
    id       UUID PRIMARY KEY,
    site_id  UUID NOT NULL REFERENCES site (id),
    title    TEXT NOT NULL,
    slug     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS post (
    id               UUID PRIMARY KEY,
    archive_id       UUID NOT NULL,
    type_id          TEXT NOT NULL,
    title            TEXT NOT NULL DEFAULT '',
    slug             TEXT NOT NULL DEFAULT '',
    meta_keywords    TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    published        TIMESTAMPTZ,
    redirect_url     TEXT NOT NULL DEFAULT '',
    redirect_type    TEXT NOT NULL DEFAULT '',
    category         JSONB,
    tags             JSONB,
    regions          JSONB,
    blocks           JSONB,
    created          TIMESTAMPTZ NOT NULL,
    updated          TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS post_archive_idx ON post (archive_id, created);

CREATE TABLE IF NOT EXISTS post_draft (
    LIKE post INCLUDING ALL
);

CREATE TABLE IF NOT EXISTS category (
    id          UUID PRIMARY KEY,
    archive_id  UUID NOT NULL,
    title       TEXT NOT NULL,
    slug        TEXT NOT NULL,
    UNIQUE (archive_id, slug)
);

CREATE TABLE IF NOT EXISTS tag (
    id          UUID PRIMARY KEY,
    archive_id  UUID NOT NULL,
    title       TEXT NOT NULL,
    slug        TEXT NOT NULL,
    UNIQUE (archive_id, slug)
);
`

func marshalTaxonomies(post *simplepost.Post) (category, tags []byte, err error) {
	if category, err = json.Marshal(post.Category); err != nil {
		return nil, nil, fmt.Errorf("encode category for post %s: %w", post.ID, err)
	}
	if tags, err = json.Marshal(post.Tags); err != nil {
		return nil, nil, fmt.Errorf("encode tags for post %s: %w", post.ID, err)
	}
	return category, tags, nil
}

func unmarshalTaxonomies(category, tags []byte, post *simplepost.Post) error {
	if len(category) > 0 {
		if err := json.Unmarshal(category, &post.Category); err != nil {
			return fmt.Errorf("decode category for post %s: %w", post.ID, err)
		}
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &post.Tags); err != nil {
			return fmt.Errorf("decode tags for post %s: %w", post.ID, err)
		}
	}
	return nil
}
