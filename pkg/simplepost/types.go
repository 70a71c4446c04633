package simplepost

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// RedirectType is the kind of redirect configured on a post.
type RedirectType string

// Redirect type constants (typed).
const (
	RedirectTypePermanent RedirectType = "permanent"
	RedirectTypeTemporary RedirectType = "temporary"
)

// RegionDisplayMode controls how a region's fields are laid out in the editor.
type RegionDisplayMode string

// Region display mode constants (typed).
const (
	RegionDisplayHorizontal RegionDisplayMode = "horizontal"
	RegionDisplayVertical   RegionDisplayMode = "vertical"
)

// GroupDisplayMode controls how a block group renders its children.
type GroupDisplayMode string

// Group display mode constants (typed).
const (
	GroupDisplayMasterDetail GroupDisplayMode = "masterdetail"
	GroupDisplayHorizontal   GroupDisplayMode = "horizontal"
	GroupDisplayVertical     GroupDisplayMode = "vertical"
)

// PostState is the domain type for post lifecycle states.
type PostState string

// Post state constants (typed).
const (
	PostStateNew         PostState = "new"
	PostStateDraft       PostState = "draft"
	PostStateUnpublished PostState = "unpublished"
	PostStatePublished   PostState = "published"
)

// Taxonomy is a category or tag value. Identity in the write path is
// label-based: saving a post rebuilds its taxonomies from display titles.
type Taxonomy struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

// NewTaxonomy returns a taxonomy for the given display title with a fresh
// identity and a slug derived from the title.
func NewTaxonomy(title string) Taxonomy {
	return Taxonomy{
		ID:    uuid.New(),
		Title: title,
		Slug:  Slugify(title),
	}
}

// Slugify generates a URL-friendly slug from a display title.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Site represents a site that archives and posts belong to.
type Site struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Hostname string    `json:"hostname,omitempty"`
	Default  bool      `json:"default"`
}

// Archive is an archive page that posts are placed under.
type Archive struct {
	ID     uuid.UUID `json:"id"`
	SiteID uuid.UUID `json:"site_id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
}

// ContentType describes the runtime shape of a post type: its regions,
// custom editors and whether the type uses the block editor.
type ContentType struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	UseBlocks bool               `json:"use_blocks"`
	Regions   []RegionDefinition `json:"regions,omitempty"`
	Editors   []EditorDefinition `json:"editors,omitempty"`
}

// RegionDefinition describes one schema-declared region of a content type.
type RegionDefinition struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Collection  bool              `json:"collection"`
	Fields      []FieldDefinition `json:"fields"`

	// ListTitleField names the field whose value supplies the display title
	// for each collection row. Ignored for single-field regions, where the
	// field value itself is the title.
	ListTitleField string            `json:"list_title_field,omitempty"`
	Display        RegionDisplayMode `json:"display,omitempty"`
	Icon           string            `json:"icon,omitempty"`
}

// FieldDefinition describes one field within a region.
type FieldDefinition struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Placeholder string `json:"placeholder,omitempty"`
	Description string `json:"description,omitempty"`
	HalfWidth   bool   `json:"half_width,omitempty"`
}

// EditorDefinition describes a type-level custom editor. Custom editors are
// display affordances next to the block editor and have no inverse transform.
type EditorDefinition struct {
	Component string `json:"component"`
	Icon      string `json:"icon,omitempty"`
	Title     string `json:"title"`
}

// SelectOption is one selectable value of a field type that offers options.
type SelectOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// FieldTypeInfo is the field-type registry entry: the UI component used to
// render the field, its option set when the field is selectable, and the
// constructor for the concrete runtime type.
type FieldTypeInfo struct {
	Type      string
	Component string

	// Options is non-nil when the field offers a fixed set of selectable
	// values, in display order.
	Options []SelectOption

	New func() Field
}

// Selectable reports whether the field type offers a selectable option set.
func (i FieldTypeInfo) Selectable() bool {
	return i.Options != nil
}

// BlockTypeInfo is the block-type registry entry.
type BlockTypeInfo struct {
	Type      string
	Name      string
	Icon      string
	Component string

	// Group marks the type as a block group. Display controls how a group
	// renders its children and Fields declares the group's own scalar
	// field-valued properties.
	Group   bool
	Display GroupDisplayMode
	Fields  []FieldDefinition

	New func() *Block
}

// FieldMap holds region or block field values keyed by field definition id.
type FieldMap map[string]Field

// RegionValue is one row of region data: either a single field value (for
// regions declaring exactly one field) or a field-id keyed map.
type RegionValue struct {
	Field  Field
	Fields FieldMap
}

// IsZero reports whether the value carries no data.
func (v RegionValue) IsZero() bool {
	return v.Field == nil && v.Fields == nil
}

// RegionData is the raw region slot on a post. Non-collection regions use
// Value; collection regions keep their rows in Rows, in user-visible order.
type RegionData struct {
	Value RegionValue   `json:"value"`
	Rows  []RegionValue `json:"rows,omitempty"`
}

// Post is the persisted, dynamically-typed content record. Its region map
// and block list are shaped by the content type resolved from TypeID.
type Post struct {
	ID              uuid.UUID
	ArchiveID       uuid.UUID
	TypeID          string
	Title           string
	Slug            string
	MetaKeywords    string
	MetaDescription string
	Published       *time.Time
	RedirectURL     string
	RedirectType    RedirectType
	Category        Taxonomy
	Tags            []Taxonomy
	Regions         map[string]*RegionData
	Blocks          []*Block
	Created         time.Time
	Updated         time.Time
}

// Clone returns a deep copy of the post. Repositories hand out clones so
// callers cannot mutate stored records in place.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	out := *p
	if p.Published != nil {
		published := *p.Published
		out.Published = &published
	}
	out.Tags = append([]Taxonomy(nil), p.Tags...)
	if p.Regions != nil {
		out.Regions = make(map[string]*RegionData, len(p.Regions))
		for id, data := range p.Regions {
			out.Regions[id] = data.clone()
		}
	}
	if p.Blocks != nil {
		out.Blocks = make([]*Block, len(p.Blocks))
		for i, b := range p.Blocks {
			out.Blocks[i] = b.Clone()
		}
	}
	return &out
}

func (d *RegionData) clone() *RegionData {
	if d == nil {
		return nil
	}
	out := &RegionData{Value: d.Value.clone()}
	if d.Rows != nil {
		out.Rows = make([]RegionValue, len(d.Rows))
		for i, row := range d.Rows {
			out.Rows[i] = row.clone()
		}
	}
	return out
}

func (v RegionValue) clone() RegionValue {
	return RegionValue{
		Field:  CloneField(v.Field),
		Fields: v.Fields.clone(),
	}
}

func (m FieldMap) clone() FieldMap {
	if m == nil {
		return nil
	}
	out := make(FieldMap, len(m))
	for id, f := range m {
		out[id] = CloneField(f)
	}
	return out
}

// PostInfo is one row in a post listing.
type PostInfo struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	TypeID    string     `json:"type_id"`
	TypeTitle string     `json:"type_title,omitempty"`
	Category  string     `json:"category,omitempty"`
	Published *time.Time `json:"published,omitempty"`
	State     PostState  `json:"state"`
}
