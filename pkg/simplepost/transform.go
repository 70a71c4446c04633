package simplepost

import (
	"fmt"
	"log/slog"
)

// Transformer converts between raw post data and the edit model. It is
// stateless apart from its registry lookups; a single instance is safe for
// concurrent use.
type Transformer struct {
	fields  FieldRegistry
	blocks  BlockRegistry
	factory Factory
	logger  *slog.Logger
}

// NewTransformer creates a transformer over the given registries. A nil
// logger falls back to slog.Default.
func NewTransformer(fields FieldRegistry, blocks BlockRegistry, factory Factory, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{fields: fields, blocks: blocks, factory: factory, logger: logger}
}

// Region builds the edit model for one declared region from the record's raw
// region data. Non-collection regions are wrapped as a one-element sequence
// so the same row logic applies uniformly; missing data yields zero-valued
// fields so a new post still renders.
func (t *Transformer) Region(def RegionDefinition, data *RegionData) RegionModel {
	model := RegionModel{
		Meta: RegionMeta{
			ID:          def.ID,
			Name:        def.Title,
			Description: def.Description,
			Placeholder: def.Placeholder,
			Collection:  def.Collection,
			Display:     def.Display,
			Icon:        def.Icon,
		},
	}

	var rows []RegionValue
	if def.Collection {
		if data != nil {
			rows = data.Rows
		}
	} else {
		var value RegionValue
		if data != nil {
			value = data.Value
		}
		rows = []RegionValue{value}
	}

	model.Items = make([]RegionItemModel, 0, len(rows))
	for _, row := range rows {
		model.Items = append(model.Items, t.regionItem(def, row))
	}
	return model
}

func (t *Transformer) regionItem(def RegionDefinition, row RegionValue) RegionItemModel {
	item := RegionItemModel{Fields: make([]FieldModel, 0, len(def.Fields))}
	single := len(def.Fields) == 1

	for _, fd := range def.Fields {
		meta := FieldMeta{
			ID:          fd.ID,
			Type:        fd.Type,
			Name:        fd.Title,
			Placeholder: fd.Placeholder,
			Description: fd.Description,
			HalfWidth:   fd.HalfWidth,
		}
		if info, ok := t.fields.GetFieldType(fd.Type); ok {
			meta.Component = info.Component
			if info.Selectable() {
				meta.Options = append([]SelectOption(nil), info.Options...)
			}
		}

		var value Field
		if single {
			// The row value itself is the field's value.
			value = row.Field
			meta.NotifyChange = true
			if value != nil {
				item.Title = value.Title()
			}
		} else {
			value = row.Fields[fd.ID]
			if fd.ID == def.ListTitleField {
				meta.NotifyChange = true
				if value != nil {
					item.Title = value.Title()
				}
			}
		}
		if value == nil {
			value = t.newField(fd.Type)
		}
		item.Fields = append(item.Fields, FieldModel{Meta: meta, Value: value})
	}

	if item.Title == "" {
		item.Title = NoTitle
	}
	return item
}

func (t *Transformer) newField(typeID string) Field {
	if info, ok := t.fields.GetFieldType(typeID); ok && info.New != nil {
		return info.New()
	}
	return nil
}

// ApplyRegions writes the edited region models back onto the post, one
// declared region at a time. A declared region missing from the model fails
// with ErrRegionNotFound; a declared field missing from an item fails with
// ErrFieldNotFound. Both indicate model/schema drift.
func (t *Transformer) ApplyRegions(post *Post, typ *ContentType, regions []RegionModel) error {
	if post.Regions == nil {
		post.Regions = make(map[string]*RegionData, len(typ.Regions))
	}
	for _, def := range typ.Regions {
		model, ok := findRegion(regions, def.ID)
		if !ok {
			return fmt.Errorf("apply region %q: %w", def.ID, ErrRegionNotFound)
		}
		data := post.Regions[def.ID]
		if data == nil {
			data = &RegionData{}
			post.Regions[def.ID] = data
		}
		if def.Collection {
			if err := t.applyCollection(def, data, model); err != nil {
				return err
			}
			continue
		}
		if err := t.applySingle(def, data, model); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) applyCollection(def RegionDefinition, data *RegionData, model RegionModel) error {
	data.Rows = nil
	for _, item := range model.Items {
		row, err := regionRow(def, item)
		if err != nil {
			return fmt.Errorf("apply region %q: %w", def.ID, err)
		}
		data.Rows = append(data.Rows, row)
	}
	return nil
}

func (t *Transformer) applySingle(def RegionDefinition, data *RegionData, model RegionModel) error {
	if len(model.Items) == 0 {
		return nil
	}
	item := model.Items[0]
	if len(def.Fields) == 1 {
		value, err := itemField(item, def.Fields[0].ID)
		if err != nil {
			return fmt.Errorf("apply region %q: %w", def.ID, err)
		}
		data.Value = RegionValue{Field: value}
		return nil
	}
	// Merge entry-by-entry: map keys outside the declared field set are
	// preserved, since extensions may inject extra region data.
	if data.Value.Fields == nil {
		data.Value.Fields = make(FieldMap, len(def.Fields))
	}
	for _, fd := range def.Fields {
		value, err := itemField(item, fd.ID)
		if err != nil {
			return fmt.Errorf("apply region %q: %w", def.ID, err)
		}
		data.Value.Fields[fd.ID] = value
	}
	return nil
}

func findRegion(regions []RegionModel, id string) (RegionModel, bool) {
	for _, r := range regions {
		if r.Meta.ID == id {
			return r, true
		}
	}
	return RegionModel{}, false
}

func regionRow(def RegionDefinition, item RegionItemModel) (RegionValue, error) {
	if len(def.Fields) == 1 {
		value, err := itemField(item, def.Fields[0].ID)
		if err != nil {
			return RegionValue{}, err
		}
		return RegionValue{Field: value}, nil
	}
	fields := make(FieldMap, len(def.Fields))
	for _, fd := range def.Fields {
		value, err := itemField(item, fd.ID)
		if err != nil {
			return RegionValue{}, err
		}
		fields[fd.ID] = value
	}
	return RegionValue{Fields: fields}, nil
}

func itemField(item RegionItemModel, id string) (Field, error) {
	for _, fm := range item.Fields {
		if fm.Meta.ID == id {
			return fm.Value, nil
		}
	}
	return nil, fmt.Errorf("field %q: %w", id, ErrFieldNotFound)
}

// Blocks builds the edit model's block tree from the record's block list, in
// order. Group children are transformed recursively with the first child
// marked active, the editor's default selection.
func (t *Transformer) Blocks(blocks []*Block) BlockModelList {
	out := make(BlockModelList, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, t.blockNode(b))
	}
	return out
}

func (t *Transformer) blockNode(b *Block) BlockModel {
	info, ok := t.blocks.GetBlockType(b.Type)
	if !ok || !info.Group {
		return t.simpleNode(b, info)
	}

	group := &GroupBlockModel{
		ID:        b.ID,
		Type:      b.Type,
		Icon:      info.Icon,
		Component: groupComponent(info.Display),
		Items:     make(BlockModelList, 0, len(b.Items)),
	}
	for _, fd := range info.Fields {
		meta := FieldMeta{ID: fd.ID, Type: fd.Type, Name: fd.Title, HalfWidth: fd.HalfWidth}
		if fieldInfo, ok := t.fields.GetFieldType(fd.Type); ok {
			meta.Component = fieldInfo.Component
			if fieldInfo.Selectable() {
				meta.Options = append([]SelectOption(nil), fieldInfo.Options...)
			}
		}
		value := b.Fields[fd.ID]
		if value == nil {
			value = t.newField(fd.Type)
		}
		group.Fields = append(group.Fields, FieldModel{Meta: meta, Value: value})
	}
	for i, child := range b.Items {
		childInfo, _ := t.blocks.GetBlockType(child.Type)
		node := t.simpleNode(child, childInfo)
		node.Active = i == 0
		group.Items = append(group.Items, node)
	}
	return group
}

func (t *Transformer) simpleNode(b *Block, info *BlockTypeInfo) *SimpleBlockModel {
	node := &SimpleBlockModel{
		ID:        b.ID,
		Type:      b.Type,
		Component: "block",
		Block:     b,
	}
	if info != nil {
		node.Component = info.Component
		node.Icon = info.Icon
		node.Title = blockTitle(b, info)
	}
	if node.Title == "" {
		node.Title = b.Type
	}
	return node
}

// blockTitle resolves a simple block's self-describing title from its first
// declared field that produces one, falling back to the type's display name.
func blockTitle(b *Block, info *BlockTypeInfo) string {
	for _, fd := range info.Fields {
		if f := b.Fields[fd.ID]; f != nil {
			if title := f.Title(); title != "" {
				return title
			}
		}
	}
	return info.Name
}

func groupComponent(display GroupDisplayMode) string {
	switch display {
	case GroupDisplayHorizontal:
		return "block-group-horizontal"
	case GroupDisplayVertical:
		return "block-group-vertical"
	default:
		return "block-group"
	}
}

// ApplyBlocks replaces the post's block list with the edited nodes, in
// order. A group whose type id no longer resolves is logged and dropped;
// the rest of the list is kept.
func (t *Transformer) ApplyBlocks(post *Post, blocks BlockModelList) {
	post.Blocks = nil
	for _, node := range blocks {
		switch n := node.(type) {
		case *GroupBlockModel:
			block, err := t.factory.NewBlock(n.Type)
			if err != nil {
				t.logger.Warn("dropping block with unregistered type",
					"block_id", n.ID, "block_type", n.Type)
				continue
			}
			block.ID = n.ID
			if block.Fields == nil {
				block.Fields = make(FieldMap, len(n.Fields))
			}
			for _, fm := range n.Fields {
				if fm.Value != nil {
					block.Fields[fm.Meta.ID] = fm.Value
				}
			}
			for _, child := range n.Items {
				if c, ok := child.(*SimpleBlockModel); ok && c.Block != nil {
					block.Items = append(block.Items, c.Block)
				}
			}
			post.Blocks = append(post.Blocks, block)
		case *SimpleBlockModel:
			if n.Block != nil {
				post.Blocks = append(post.Blocks, n.Block)
			}
		}
	}
}
