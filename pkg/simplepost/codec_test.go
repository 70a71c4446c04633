package simplepost_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-post/pkg/simplepost"
)

func newTestCodec() *simplepost.Codec {
	fields := simplepost.NewFieldSet()
	simplepost.RegisterDefaultFields(fields)
	return simplepost.NewCodec(fields)
}

func TestMarshalFieldEnvelope(t *testing.T) {
	raw, err := simplepost.MarshalField(&simplepost.NumberField{Value: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"number","value":{"value":7}}`, string(raw))

	raw, err = simplepost.MarshalField(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestDecodeField(t *testing.T) {
	codec := newTestCodec()

	t.Run("concrete type restored", func(t *testing.T) {
		raw, err := simplepost.MarshalField(&simplepost.TextField{Value: "multi\nline"})
		require.NoError(t, err)

		field, err := codec.DecodeField(raw)
		require.NoError(t, err)
		text, ok := field.(*simplepost.TextField)
		require.True(t, ok)
		assert.Equal(t, "multi\nline", text.Value)
	})

	t.Run("null decodes to nil", func(t *testing.T) {
		field, err := codec.DecodeField([]byte("null"))
		require.NoError(t, err)
		assert.Nil(t, field)
	})

	t.Run("unregistered type fails", func(t *testing.T) {
		_, err := codec.DecodeField([]byte(`{"type":"hologram","value":{}}`))
		assert.ErrorIs(t, err, simplepost.ErrUnknownFieldType)
	})
}

func TestRegionsRoundTrip(t *testing.T) {
	codec := newTestCodec()
	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	regions := map[string]*simplepost.RegionData{
		"heading": {
			Value: simplepost.RegionValue{Field: &simplepost.TextField{Value: "Intro"}},
		},
		"seo": {
			Value: simplepost.RegionValue{Fields: simplepost.FieldMap{
				"title":     &simplepost.StringField{Value: "Intro, for search"},
				"published": &simplepost.DateField{Value: &when},
				"priority":  &simplepost.NumberField{Value: 3},
				"visible":   &simplepost.CheckboxField{Value: true},
			}},
		},
		"links": {
			Rows: []simplepost.RegionValue{
				{Fields: simplepost.FieldMap{"label": &simplepost.StringField{Value: "First"}}},
				{Fields: simplepost.FieldMap{"label": &simplepost.StringField{Value: "Second"}}},
			},
		},
	}

	raw, err := codec.EncodeRegions(regions)
	require.NoError(t, err)

	decoded, err := codec.DecodeRegions(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	heading := decoded["heading"]
	require.NotNil(t, heading)
	assert.Equal(t, "Intro", heading.Value.Field.(*simplepost.TextField).Value)

	seo := decoded["seo"].Value.Fields
	assert.Equal(t, "Intro, for search", seo["title"].(*simplepost.StringField).Value)
	assert.Equal(t, 3, seo["priority"].(*simplepost.NumberField).Value)
	assert.True(t, seo["visible"].(*simplepost.CheckboxField).Value)
	require.NotNil(t, seo["published"].(*simplepost.DateField).Value)
	assert.True(t, when.Equal(*seo["published"].(*simplepost.DateField).Value))

	rows := decoded["links"].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "First", rows[0].Fields["label"].(*simplepost.StringField).Value)
	assert.Equal(t, "Second", rows[1].Fields["label"].(*simplepost.StringField).Value)
}

func TestBlocksRoundTrip(t *testing.T) {
	codec := newTestCodec()

	blocks := []*simplepost.Block{
		{
			ID:   uuid.New(),
			Type: "columns",
			Fields: simplepost.FieldMap{
				"legend": &simplepost.StringField{Value: "Pair"},
			},
			Items: []*simplepost.Block{
				textBlock("left"),
				textBlock("right"),
			},
		},
		textBlock("outro"),
	}

	raw, err := codec.EncodeBlocks(blocks)
	require.NoError(t, err)

	decoded, err := codec.DecodeBlocks(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	group := decoded[0]
	assert.Equal(t, blocks[0].ID, group.ID)
	assert.Equal(t, "columns", group.Type)
	assert.Equal(t, "Pair", group.Fields["legend"].(*simplepost.StringField).Value)
	require.Len(t, group.Items, 2)
	assert.Equal(t, "left", group.Items[0].Fields["body"].(*simplepost.MarkdownField).Value)
	assert.Equal(t, "right", group.Items[1].Fields["body"].(*simplepost.MarkdownField).Value)

	assert.Equal(t, "outro", decoded[1].Fields["body"].(*simplepost.MarkdownField).Value)
}

func TestDecodeNullDocuments(t *testing.T) {
	codec := newTestCodec()

	regions, err := codec.DecodeRegions([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, regions)

	blocks, err := codec.DecodeBlocks(nil)
	require.NoError(t, err)
	assert.Nil(t, blocks)
}
