package simplepost

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublishDateLayout is the wire layout for publish timestamps in the edit
// model. Values are interpreted in the server's local time zone.
const PublishDateLayout = "2006-01-02 15:04"

// NoTitle is the sentinel shown for region items whose fields produce no
// display title.
const NoTitle = "…"

// ParsePublishDate parses an edit-model publish string. An empty string
// yields an unset timestamp.
func ParsePublishDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(PublishDateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse publish date %q: %w", s, ErrInvalidPublishDate)
	}
	return &t, nil
}

// FormatPublishDate renders a publish timestamp for the edit model.
func FormatPublishDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(PublishDateLayout)
}

// PostEditModel is the UI-facing projection of a post. It mirrors the record
// but represents regions as an ordered list of region models and blocks as a
// polymorphic node list. It has no independent identity and is rebuilt from
// the record on every read.
type PostEditModel struct {
	ID              uuid.UUID      `json:"id"`
	ArchiveID       uuid.UUID      `json:"archive_id"`
	TypeID          string         `json:"type_id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	MetaKeywords    string         `json:"meta_keywords,omitempty"`
	MetaDescription string         `json:"meta_description,omitempty"`
	Published       string         `json:"published,omitempty"`
	RedirectURL     string         `json:"redirect_url,omitempty"`
	RedirectType    RedirectType   `json:"redirect_type,omitempty"`
	Category        string         `json:"category,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	State           PostState      `json:"state"`
	UseBlocks       bool           `json:"use_blocks"`
	Regions         []RegionModel  `json:"regions"`
	Blocks          BlockModelList `json:"blocks,omitempty"`
	Editors         []EditorModel  `json:"editors,omitempty"`
}

// RegionMeta carries the display metadata of a region.
type RegionMeta struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Collection  bool              `json:"collection"`
	Display     RegionDisplayMode `json:"display,omitempty"`
	Icon        string            `json:"icon,omitempty"`
}

// RegionModel is one region of the edit model. Items has exactly one entry
// for non-collection regions and one entry per row for collections, in row
// order.
type RegionModel struct {
	Meta  RegionMeta        `json:"meta"`
	Items []RegionItemModel `json:"items"`
}

// RegionItemModel is one row of a region. Title is never empty; it falls
// back to the NoTitle sentinel.
type RegionItemModel struct {
	Title  string       `json:"title"`
	Fields []FieldModel `json:"fields"`
}

// FieldMeta carries the display metadata of a field.
type FieldMeta struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Component   string `json:"component"`
	Placeholder string `json:"placeholder,omitempty"`
	Description string `json:"description,omitempty"`
	HalfWidth   bool   `json:"half_width,omitempty"`

	// NotifyChange marks the field whose edits should refresh the row title.
	NotifyChange bool           `json:"notify_change"`
	Options      []SelectOption `json:"options,omitempty"`
}

// FieldModel is one field of a region item: metadata plus current value.
type FieldModel struct {
	Meta  FieldMeta
	Value Field
}

// MarshalJSON writes the value through the field envelope so the concrete
// type survives the trip to the editor and back.
func (m FieldModel) MarshalJSON() ([]byte, error) {
	value, err := MarshalField(m.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Meta  FieldMeta       `json:"meta"`
		Value json.RawMessage `json:"value"`
	}{Meta: m.Meta, Value: value})
}

// EditorModel is a type-level custom editor shown next to the block editor.
type EditorModel struct {
	Component string `json:"component"`
	Icon      string `json:"icon,omitempty"`
	Title     string `json:"title"`
}

// BlockModel is a node in the edit model's block tree.
type BlockModel interface {
	blockModel()
}

// SimpleBlockModel is a flat block node carrying its already-typed value.
type SimpleBlockModel struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon,omitempty"`
	Component string    `json:"component"`
	Active    bool      `json:"active"`
	Block     *Block    `json:"block"`
}

func (*SimpleBlockModel) blockModel() {}

// MarshalJSON adds the node kind discriminator.
func (m *SimpleBlockModel) MarshalJSON() ([]byte, error) {
	type alias SimpleBlockModel
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{Kind: "block", alias: (*alias)(m)})
}

// GroupBlockModel is a block group node: its own scalar fields plus child
// nodes, one level deep.
type GroupBlockModel struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Icon      string         `json:"icon,omitempty"`
	Component string         `json:"component"`
	Fields    []FieldModel   `json:"fields,omitempty"`
	Items     BlockModelList `json:"items"`
}

func (*GroupBlockModel) blockModel() {}

// MarshalJSON adds the node kind discriminator.
func (m *GroupBlockModel) MarshalJSON() ([]byte, error) {
	type alias GroupBlockModel
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{Kind: "group", alias: (*alias)(m)})
}

// BlockModelList is an ordered list of block nodes.
type BlockModelList []BlockModel
