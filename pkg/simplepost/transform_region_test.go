package simplepost_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-post/pkg/simplepost"
)

func newTestTransformer() (*simplepost.Transformer, *simplepost.FieldSet) {
	_, fields, blocks := testRegistries()
	factory := simplepost.NewFactory(fields, blocks)
	return simplepost.NewTransformer(fields, blocks, factory, nil), fields
}

func regionDef(t *testing.T, id string) simplepost.RegionDefinition {
	t.Helper()
	for _, def := range testPostType().Regions {
		if def.ID == id {
			return def
		}
	}
	t.Fatalf("region %q not declared", id)
	return simplepost.RegionDefinition{}
}

func TestRegionTransformSingleField(t *testing.T) {
	tr, _ := newTestTransformer()
	def := regionDef(t, "heading")

	t.Run("value becomes the field", func(t *testing.T) {
		data := &simplepost.RegionData{
			Value: simplepost.RegionValue{Field: &simplepost.TextField{Value: "Our first post"}},
		}

		model := tr.Region(def, data)
		require.Len(t, model.Items, 1)

		item := model.Items[0]
		assert.Equal(t, "Our first post", item.Title)
		require.Len(t, item.Fields, 1)
		assert.True(t, item.Fields[0].Meta.NotifyChange)
		assert.Equal(t, "text-field", item.Fields[0].Meta.Component)
		assert.Equal(t, &simplepost.TextField{Value: "Our first post"}, item.Fields[0].Value)
	})

	t.Run("missing data still yields one renderable item", func(t *testing.T) {
		model := tr.Region(def, nil)
		require.Len(t, model.Items, 1)
		assert.Equal(t, simplepost.NoTitle, model.Items[0].Title)
		require.Len(t, model.Items[0].Fields, 1)
		assert.Equal(t, &simplepost.TextField{}, model.Items[0].Fields[0].Value)
	})
}

func TestRegionTransformMultiField(t *testing.T) {
	tr, _ := newTestTransformer()
	def := regionDef(t, "seo")

	data := &simplepost.RegionData{
		Value: simplepost.RegionValue{Fields: simplepost.FieldMap{
			"title":    &simplepost.StringField{Value: "About us"},
			"keywords": &simplepost.StringField{Value: "company, about"},
		}},
	}

	model := tr.Region(def, data)
	require.Len(t, model.Items, 1)

	item := model.Items[0]
	assert.Equal(t, "About us", item.Title)

	title := findField(t, item, "title")
	assert.True(t, title.Meta.NotifyChange)
	assert.True(t, title.Meta.HalfWidth)

	keywords := findField(t, item, "keywords")
	assert.False(t, keywords.Meta.NotifyChange)
	assert.Equal(t, "company, about", stringValue(t, keywords))
}

func TestRegionTransformCollectionOrder(t *testing.T) {
	tr, _ := newTestTransformer()
	def := regionDef(t, "links")

	labels := []string{"First", "Second", "Third"}
	data := &simplepost.RegionData{}
	for _, label := range labels {
		data.Rows = append(data.Rows, simplepost.RegionValue{Fields: simplepost.FieldMap{
			"label": &simplepost.StringField{Value: label},
			"url":   &simplepost.StringField{Value: "https://example.com"},
		}})
	}

	model := tr.Region(def, data)
	require.Len(t, model.Items, len(labels))
	for i, label := range labels {
		assert.Equal(t, label, model.Items[i].Title, "row order must be preserved")
	}

	t.Run("empty collection yields zero items", func(t *testing.T) {
		model := tr.Region(def, &simplepost.RegionData{})
		assert.Empty(t, model.Items)
	})
}

func TestRegionTransformTitleSentinel(t *testing.T) {
	tr, _ := newTestTransformer()
	def := regionDef(t, "links")

	data := &simplepost.RegionData{Rows: []simplepost.RegionValue{
		{Fields: simplepost.FieldMap{
			"label": &simplepost.StringField{},
			"url":   &simplepost.StringField{Value: "https://example.com"},
		}},
	}}

	model := tr.Region(def, data)
	require.Len(t, model.Items, 1)
	assert.Equal(t, simplepost.NoTitle, model.Items[0].Title)
}

func TestRegionTransformSelectableOptions(t *testing.T) {
	tr, fields := newTestTransformer()
	fields.Register(simplepost.FieldTypeInfo{
		Type:      "priority",
		Component: "select-field",
		Options: []simplepost.SelectOption{
			{Value: 0, Label: "Low"},
			{Value: 1, Label: "High"},
		},
		New: func() simplepost.Field { return &simplepost.SelectField{} },
	})
	def := simplepost.RegionDefinition{
		ID:    "settings",
		Title: "Settings",
		Fields: []simplepost.FieldDefinition{
			{ID: "priority", Type: "priority", Title: "Priority"},
		},
	}

	model := tr.Region(def, nil)
	require.Len(t, model.Items, 1)
	options := model.Items[0].Fields[0].Meta.Options
	require.Len(t, options, 2)
	assert.Equal(t, simplepost.SelectOption{Value: 0, Label: "Low"}, options[0])
	assert.Equal(t, simplepost.SelectOption{Value: 1, Label: "High"}, options[1])
}

func TestApplyRegions(t *testing.T) {
	tr, _ := newTestTransformer()
	typ := testPostType()

	buildModel := func() []simplepost.RegionModel {
		var models []simplepost.RegionModel
		for _, def := range typ.Regions {
			models = append(models, tr.Region(def, nil))
		}
		return models
	}

	t.Run("missing region fails", func(t *testing.T) {
		post := &simplepost.Post{TypeID: typ.ID}
		err := tr.ApplyRegions(post, typ, buildModel()[1:])
		require.Error(t, err)
		assert.ErrorIs(t, err, simplepost.ErrRegionNotFound)
	})

	t.Run("missing declared field fails", func(t *testing.T) {
		post := &simplepost.Post{TypeID: typ.ID}
		regions := buildModel()
		// Drop the "keywords" field from the seo region's single item.
		regions[1].Items[0].Fields = regions[1].Items[0].Fields[:1]
		err := tr.ApplyRegions(post, typ, regions)
		require.Error(t, err)
		assert.ErrorIs(t, err, simplepost.ErrFieldNotFound)
	})

	t.Run("collection rows are replaced in order", func(t *testing.T) {
		post := &simplepost.Post{
			TypeID: typ.ID,
			Regions: map[string]*simplepost.RegionData{
				"links": {Rows: []simplepost.RegionValue{
					{Fields: simplepost.FieldMap{
						"label": &simplepost.StringField{Value: "Stale"},
						"url":   &simplepost.StringField{Value: "https://old.example.com"},
					}},
				}},
			},
		}
		regions := buildModel()
		for _, label := range []string{"First", "Second"} {
			regions[2].Items = append(regions[2].Items, simplepost.RegionItemModel{
				Fields: []simplepost.FieldModel{
					{Meta: simplepost.FieldMeta{ID: "label"}, Value: &simplepost.StringField{Value: label}},
					{Meta: simplepost.FieldMeta{ID: "url"}, Value: &simplepost.StringField{Value: "https://example.com"}},
				},
			})
		}

		require.NoError(t, tr.ApplyRegions(post, typ, regions))

		rows := post.Regions["links"].Rows
		require.Len(t, rows, 2)
		assert.Equal(t, "First", rows[0].Fields["label"].(*simplepost.StringField).Value)
		assert.Equal(t, "Second", rows[1].Fields["label"].(*simplepost.StringField).Value)
	})

	t.Run("single-field collection rows keep the raw value", func(t *testing.T) {
		post := &simplepost.Post{TypeID: typ.ID}
		regions := buildModel()
		regions[3].Items = append(regions[3].Items, simplepost.RegionItemModel{
			Fields: []simplepost.FieldModel{
				{Meta: simplepost.FieldMeta{ID: "quote"}, Value: &simplepost.TextField{Value: "Ship it"}},
			},
		})

		require.NoError(t, tr.ApplyRegions(post, typ, regions))

		rows := post.Regions["quotes"].Rows
		require.Len(t, rows, 1)
		assert.Equal(t, &simplepost.TextField{Value: "Ship it"}, rows[0].Field)
		assert.Nil(t, rows[0].Fields)
	})
}

// The inverse transform for non-collection multi-field regions merges into
// the existing field map entry-by-entry. Keys outside the declared schema
// are preserved, since extensions may stash extra region data there.
func TestApplyRegionsPreservesUndeclaredKeys(t *testing.T) {
	tr, _ := newTestTransformer()
	typ := testPostType()

	post := &simplepost.Post{
		TypeID: typ.ID,
		Regions: map[string]*simplepost.RegionData{
			"seo": {Value: simplepost.RegionValue{Fields: simplepost.FieldMap{
				"title":    &simplepost.StringField{Value: "Old title"},
				"injected": &simplepost.StringField{Value: "keep me"},
			}}},
		},
	}

	var regions []simplepost.RegionModel
	for _, def := range typ.Regions {
		regions = append(regions, tr.Region(def, post.Regions[def.ID]))
	}
	item := &regions[1].Items[0]
	for i := range item.Fields {
		if item.Fields[i].Meta.ID == "title" {
			item.Fields[i].Value = &simplepost.StringField{Value: "New title"}
		}
	}

	require.NoError(t, tr.ApplyRegions(post, typ, regions))

	merged := post.Regions["seo"].Value.Fields
	assert.Equal(t, "New title", merged["title"].(*simplepost.StringField).Value)
	assert.Equal(t, "keep me", merged["injected"].(*simplepost.StringField).Value)
}
