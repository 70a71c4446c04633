package simplepost

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TypeSet is an in-memory TypeRegistry. Registration order is preserved for
// listing, since it is the order type pickers present to editors.
type TypeSet struct {
	mu    sync.RWMutex
	types map[string]*ContentType
	order []string
}

// NewTypeSet creates an empty type registry.
func NewTypeSet() *TypeSet {
	return &TypeSet{types: make(map[string]*ContentType)}
}

// Register adds or replaces a content type.
func (s *TypeSet) Register(t *ContentType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.types[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.types[t.ID] = t
}

func (s *TypeSet) GetType(id string) (*ContentType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[id]
	return t, ok
}

func (s *TypeSet) ListTypes() []*ContentType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*ContentType, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.types[id])
	}
	return out
}

// FieldSet is an in-memory FieldRegistry.
type FieldSet struct {
	mu     sync.RWMutex
	fields map[string]*FieldTypeInfo
}

// NewFieldSet creates an empty field-type registry.
func NewFieldSet() *FieldSet {
	return &FieldSet{fields: make(map[string]*FieldTypeInfo)}
}

// Register adds or replaces a field type.
func (s *FieldSet) Register(info FieldTypeInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[info.Type] = &info
}

func (s *FieldSet) GetFieldType(typeID string) (*FieldTypeInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.fields[typeID]
	return info, ok
}

// BlockSet is an in-memory BlockRegistry.
type BlockSet struct {
	mu     sync.RWMutex
	blocks map[string]*BlockTypeInfo
}

// NewBlockSet creates an empty block-type registry.
func NewBlockSet() *BlockSet {
	return &BlockSet{blocks: make(map[string]*BlockTypeInfo)}
}

// Register adds or replaces a block type.
func (s *BlockSet) Register(info BlockTypeInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[info.Type] = &info
}

func (s *BlockSet) GetBlockType(typeID string) (*BlockTypeInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.blocks[typeID]
	return info, ok
}

// RegisterDefaultFields seeds the standard field kinds.
func RegisterDefaultFields(s *FieldSet) {
	s.Register(FieldTypeInfo{
		Type:      FieldTypeString,
		Component: "string-field",
		New:       func() Field { return &StringField{} },
	})
	s.Register(FieldTypeInfo{
		Type:      FieldTypeText,
		Component: "text-field",
		New:       func() Field { return &TextField{} },
	})
	s.Register(FieldTypeInfo{
		Type:      FieldTypeMarkdown,
		Component: "markdown-field",
		New:       func() Field { return &MarkdownField{} },
	})
	s.Register(FieldTypeInfo{
		Type:      FieldTypeNumber,
		Component: "number-field",
		New:       func() Field { return &NumberField{} },
	})
	s.Register(FieldTypeInfo{
		Type:      FieldTypeCheckbox,
		Component: "checkbox-field",
		New:       func() Field { return &CheckboxField{} },
	})
	s.Register(FieldTypeInfo{
		Type:      FieldTypeDate,
		Component: "date-field",
		New:       func() Field { return &DateField{} },
	})
	s.Register(FieldTypeInfo{
		Type:      FieldTypeSelect,
		Component: "select-field",
		New:       func() Field { return &SelectField{} },
	})
}

// RegisterDefaultBlocks seeds a small set of standard block types.
func RegisterDefaultBlocks(s *BlockSet) {
	s.Register(BlockTypeInfo{
		Type:      "text",
		Name:      "Text",
		Icon:      "fas fa-paragraph",
		Component: "text-block",
		Fields: []FieldDefinition{
			{ID: "body", Type: FieldTypeMarkdown, Title: "Body"},
		},
	})
	s.Register(BlockTypeInfo{
		Type:      "quote",
		Name:      "Quote",
		Icon:      "fas fa-quote-right",
		Component: "quote-block",
		Fields: []FieldDefinition{
			{ID: "body", Type: FieldTypeText, Title: "Quote"},
			{ID: "author", Type: FieldTypeString, Title: "Author"},
		},
	})
	s.Register(BlockTypeInfo{
		Type:      "columns",
		Name:      "Columns",
		Icon:      "fas fa-columns",
		Component: "block-group-horizontal",
		Group:     true,
		Display:   GroupDisplayHorizontal,
		Fields: []FieldDefinition{
			{ID: "legend", Type: FieldTypeString, Title: "Legend"},
		},
	})
}

// factory is the default Factory built over the registries' constructors.
type factory struct {
	fields FieldRegistry
	blocks BlockRegistry
}

// NewFactory creates a factory backed by the given registries.
func NewFactory(fields FieldRegistry, blocks BlockRegistry) Factory {
	return &factory{fields: fields, blocks: blocks}
}

func (f *factory) NewPost(t *ContentType) *Post {
	p := &Post{
		TypeID:  t.ID,
		Regions: make(map[string]*RegionData, len(t.Regions)),
	}
	for _, def := range t.Regions {
		data := &RegionData{}
		if !def.Collection {
			data.Value = f.newRegionValue(def)
		}
		p.Regions[def.ID] = data
	}
	return p
}

func (f *factory) newRegionValue(def RegionDefinition) RegionValue {
	if len(def.Fields) == 1 {
		field, err := f.NewField(def.Fields[0].Type)
		if err != nil {
			return RegionValue{}
		}
		return RegionValue{Field: field}
	}
	fields := make(FieldMap, len(def.Fields))
	for _, fd := range def.Fields {
		if field, err := f.NewField(fd.Type); err == nil {
			fields[fd.ID] = field
		}
	}
	return RegionValue{Fields: fields}
}

func (f *factory) NewBlock(typeID string) (*Block, error) {
	info, ok := f.blocks.GetBlockType(typeID)
	if !ok {
		return nil, fmt.Errorf("block type %q: %w", typeID, ErrUnknownBlockType)
	}
	if info.New != nil {
		return info.New(), nil
	}
	return &Block{
		ID:     uuid.New(),
		Type:   typeID,
		Fields: make(FieldMap),
	}, nil
}

func (f *factory) NewField(typeID string) (Field, error) {
	info, ok := f.fields.GetFieldType(typeID)
	if !ok || info.New == nil {
		return nil, fmt.Errorf("field type %q: %w", typeID, ErrUnknownFieldType)
	}
	return info.New(), nil
}
