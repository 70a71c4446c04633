package simplepost

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The dynamic parts of a post (field values, region maps, block trees) are
// serialized through a small envelope that records each value's field type
// id. Encoding needs no registry since fields are self-describing; decoding
// goes through a Codec, which resolves concrete types from the field
// registry instead of reflection.

var jsonNull = []byte("null")

type fieldEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalField encodes a single field value as a typed envelope.
func MarshalField(f Field) ([]byte, error) {
	if f == nil {
		return jsonNull, nil
	}
	value, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fieldEnvelope{Type: f.Type(), Value: value})
}

// MarshalJSON encodes every value through the field envelope.
func (m FieldMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return jsonNull, nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for id, f := range m {
		raw, err := MarshalField(f)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", id, err)
		}
		out[id] = raw
	}
	return json.Marshal(out)
}

// MarshalJSON encodes the row as {"field": ...} or {"fields": {...}}.
func (v RegionValue) MarshalJSON() ([]byte, error) {
	doc := struct {
		Field  json.RawMessage `json:"field,omitempty"`
		Fields FieldMap        `json:"fields,omitempty"`
	}{Fields: v.Fields}
	if v.Field != nil {
		raw, err := MarshalField(v.Field)
		if err != nil {
			return nil, err
		}
		doc.Field = raw
	}
	return json.Marshal(doc)
}

// Codec decodes stored or submitted region and block documents back into
// concrete field types using the field registry.
type Codec struct {
	fields FieldRegistry
}

// NewCodec creates a codec over the given field registry.
func NewCodec(fields FieldRegistry) *Codec {
	return &Codec{fields: fields}
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// DecodeField decodes one enveloped field value. A JSON null yields nil.
func (c *Codec) DecodeField(raw json.RawMessage) (Field, error) {
	if isJSONNull(raw) {
		return nil, nil
	}
	var env fieldEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	info, ok := c.fields.GetFieldType(env.Type)
	if !ok || info.New == nil {
		return nil, fmt.Errorf("field type %q: %w", env.Type, ErrUnknownFieldType)
	}
	field := info.New()
	if err := json.Unmarshal(env.Value, field); err != nil {
		return nil, fmt.Errorf("decode %s field: %w", env.Type, err)
	}
	return field, nil
}

// DecodeFieldMap decodes a field-id keyed map of enveloped values.
func (c *Codec) DecodeFieldMap(raw json.RawMessage) (FieldMap, error) {
	if isJSONNull(raw) {
		return nil, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := make(FieldMap, len(doc))
	for id, fieldRaw := range doc {
		field, err := c.DecodeField(fieldRaw)
		if err != nil {
			return nil, fmt.Errorf("decode field %q: %w", id, err)
		}
		out[id] = field
	}
	return out, nil
}

type regionValueDoc struct {
	Field  json.RawMessage `json:"field,omitempty"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

type regionDataDoc struct {
	Value *regionValueDoc  `json:"value,omitempty"`
	Rows  []regionValueDoc `json:"rows,omitempty"`
}

func (c *Codec) decodeRegionValue(doc regionValueDoc) (RegionValue, error) {
	var out RegionValue
	var err error
	if out.Field, err = c.DecodeField(doc.Field); err != nil {
		return RegionValue{}, err
	}
	if out.Fields, err = c.DecodeFieldMap(doc.Fields); err != nil {
		return RegionValue{}, err
	}
	return out, nil
}

// EncodeRegions serializes a post's region map.
func (c *Codec) EncodeRegions(regions map[string]*RegionData) ([]byte, error) {
	return json.Marshal(regions)
}

// DecodeRegions deserializes a region map encoded by EncodeRegions.
func (c *Codec) DecodeRegions(raw []byte) (map[string]*RegionData, error) {
	if isJSONNull(raw) {
		return nil, nil
	}
	var docs map[string]regionDataDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	out := make(map[string]*RegionData, len(docs))
	for id, doc := range docs {
		data := &RegionData{}
		if doc.Value != nil {
			value, err := c.decodeRegionValue(*doc.Value)
			if err != nil {
				return nil, fmt.Errorf("decode region %q: %w", id, err)
			}
			data.Value = value
		}
		for _, rowDoc := range doc.Rows {
			row, err := c.decodeRegionValue(rowDoc)
			if err != nil {
				return nil, fmt.Errorf("decode region %q row: %w", id, err)
			}
			data.Rows = append(data.Rows, row)
		}
		out[id] = data
	}
	return out, nil
}

type blockDoc struct {
	ID     json.RawMessage `json:"id"`
	Type   string          `json:"type"`
	Fields json.RawMessage `json:"fields,omitempty"`
	Items  []blockDoc      `json:"items,omitempty"`
}

// EncodeBlocks serializes a post's block list.
func (c *Codec) EncodeBlocks(blocks []*Block) ([]byte, error) {
	return json.Marshal(blocks)
}

// DecodeBlock deserializes one block, recursively for groups.
func (c *Codec) DecodeBlock(raw json.RawMessage) (*Block, error) {
	if isJSONNull(raw) {
		return nil, nil
	}
	var doc blockDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return c.decodeBlockDoc(doc)
}

func (c *Codec) decodeBlockDoc(doc blockDoc) (*Block, error) {
	block := &Block{Type: doc.Type}
	if !isJSONNull(doc.ID) {
		if err := json.Unmarshal(doc.ID, &block.ID); err != nil {
			return nil, fmt.Errorf("decode block id: %w", err)
		}
	}
	var err error
	if block.Fields, err = c.DecodeFieldMap(doc.Fields); err != nil {
		return nil, fmt.Errorf("decode %s block: %w", doc.Type, err)
	}
	for _, childDoc := range doc.Items {
		child, err := c.decodeBlockDoc(childDoc)
		if err != nil {
			return nil, err
		}
		block.Items = append(block.Items, child)
	}
	return block, nil
}

// DecodeBlocks deserializes a block list encoded by EncodeBlocks.
func (c *Codec) DecodeBlocks(raw []byte) ([]*Block, error) {
	if isJSONNull(raw) {
		return nil, nil
	}
	var docs []blockDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	out := make([]*Block, 0, len(docs))
	for _, doc := range docs {
		block, err := c.decodeBlockDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, block)
	}
	return out, nil
}
