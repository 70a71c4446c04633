package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/simple-post/pkg/simplepost"
)

// The edit model's field values and block payloads are dynamically typed, so
// the save body cannot be unmarshaled directly. The documents below mirror
// the model's JSON shape with raw messages where values appear; the handler
// resolves concrete types through the codec.

type editModelDoc struct {
	ArchiveID       uuid.UUID                 `json:"archive_id"`
	TypeID          string                    `json:"type_id"`
	Title           string                    `json:"title"`
	Slug            string                    `json:"slug"`
	MetaKeywords    string                    `json:"meta_keywords"`
	MetaDescription string                    `json:"meta_description"`
	Published       string                    `json:"published"`
	RedirectURL     string                    `json:"redirect_url"`
	RedirectType    simplepost.RedirectType   `json:"redirect_type"`
	Category        string                    `json:"category"`
	Tags            []string                  `json:"tags"`
	Regions         []regionModelDoc          `json:"regions"`
	Blocks          []blockNodeDoc            `json:"blocks"`
}

type regionModelDoc struct {
	Meta  simplepost.RegionMeta `json:"meta"`
	Items []regionItemDoc       `json:"items"`
}

type regionItemDoc struct {
	Title  string          `json:"title"`
	Fields []fieldModelDoc `json:"fields"`
}

type fieldModelDoc struct {
	Meta  simplepost.FieldMeta `json:"meta"`
	Value json.RawMessage      `json:"value"`
}

type blockNodeDoc struct {
	Kind      string          `json:"kind"`
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Icon      string          `json:"icon"`
	Component string          `json:"component"`
	Active    bool            `json:"active"`
	Block     json.RawMessage `json:"block"`
	Fields    []fieldModelDoc `json:"fields"`
	Items     []blockNodeDoc  `json:"items"`
}

func (h *Handler) decodeEditModel(r *http.Request) (*simplepost.PostEditModel, error) {
	var doc editModelDoc
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}

	model := &simplepost.PostEditModel{
		ArchiveID:       doc.ArchiveID,
		TypeID:          doc.TypeID,
		Title:           doc.Title,
		Slug:            doc.Slug,
		MetaKeywords:    doc.MetaKeywords,
		MetaDescription: doc.MetaDescription,
		Published:       doc.Published,
		RedirectURL:     doc.RedirectURL,
		RedirectType:    doc.RedirectType,
		Category:        doc.Category,
		Tags:            doc.Tags,
	}

	for _, regionDoc := range doc.Regions {
		region := simplepost.RegionModel{Meta: regionDoc.Meta}
		for _, itemDoc := range regionDoc.Items {
			item := simplepost.RegionItemModel{Title: itemDoc.Title}
			for _, fieldDoc := range itemDoc.Fields {
				fm, err := h.decodeFieldModel(fieldDoc)
				if err != nil {
					return nil, fmt.Errorf("region %q: %w", regionDoc.Meta.ID, err)
				}
				item.Fields = append(item.Fields, fm)
			}
			region.Items = append(region.Items, item)
		}
		model.Regions = append(model.Regions, region)
	}

	for _, nodeDoc := range doc.Blocks {
		node, err := h.decodeBlockNode(nodeDoc)
		if err != nil {
			return nil, err
		}
		model.Blocks = append(model.Blocks, node)
	}
	return model, nil
}

func (h *Handler) decodeFieldModel(doc fieldModelDoc) (simplepost.FieldModel, error) {
	value, err := h.codec.DecodeField(doc.Value)
	if err != nil {
		return simplepost.FieldModel{}, fmt.Errorf("field %q: %w", doc.Meta.ID, err)
	}
	return simplepost.FieldModel{Meta: doc.Meta, Value: value}, nil
}

func (h *Handler) decodeBlockNode(doc blockNodeDoc) (simplepost.BlockModel, error) {
	if doc.Kind == "group" {
		group := &simplepost.GroupBlockModel{
			ID:        doc.ID,
			Type:      doc.Type,
			Icon:      doc.Icon,
			Component: doc.Component,
		}
		for _, fieldDoc := range doc.Fields {
			fm, err := h.decodeFieldModel(fieldDoc)
			if err != nil {
				return nil, fmt.Errorf("group block %s: %w", doc.ID, err)
			}
			group.Fields = append(group.Fields, fm)
		}
		for _, childDoc := range doc.Items {
			child, err := h.decodeBlockNode(childDoc)
			if err != nil {
				return nil, err
			}
			group.Items = append(group.Items, child)
		}
		return group, nil
	}

	block, err := h.codec.DecodeBlock(doc.Block)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", doc.ID, err)
	}
	return &simplepost.SimpleBlockModel{
		ID:        doc.ID,
		Type:      doc.Type,
		Title:     doc.Title,
		Icon:      doc.Icon,
		Component: doc.Component,
		Active:    doc.Active,
		Block:     block,
	}, nil
}
