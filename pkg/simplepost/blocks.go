package simplepost

import "github.com/google/uuid"

// Block is a content-authoring unit in a post body. Simple blocks keep their
// payload in Fields; group blocks additionally carry one level of child
// blocks in Items (children are never groups themselves).
type Block struct {
	ID     uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	Fields FieldMap  `json:"fields,omitempty"`
	Items  []*Block  `json:"items,omitempty"`
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	out := *b
	out.Fields = b.Fields.clone()
	if b.Items != nil {
		out.Items = make([]*Block, len(b.Items))
		for i, child := range b.Items {
			out.Items[i] = child.Clone()
		}
	}
	return &out
}
