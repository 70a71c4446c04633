package simplepost_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-post/pkg/simplepost"
	"github.com/tendant/simple-post/pkg/simplepost/repo/memory"
)

// testPostType declares a content type covering every region shape: a
// single-field region, a multi-field region, a multi-field collection and a
// single-field collection.
func testPostType() *simplepost.ContentType {
	return &simplepost.ContentType{
		ID:        "news-post",
		Title:     "News post",
		UseBlocks: true,
		Editors: []simplepost.EditorDefinition{
			{Component: "seo-editor", Icon: "fas fa-chart-line", Title: "SEO"},
		},
		Regions: []simplepost.RegionDefinition{
			{
				ID:    "heading",
				Title: "Heading",
				Fields: []simplepost.FieldDefinition{
					{ID: "ingress", Type: simplepost.FieldTypeText, Title: "Ingress"},
				},
			},
			{
				ID:             "seo",
				Title:          "SEO",
				ListTitleField: "title",
				Fields: []simplepost.FieldDefinition{
					{ID: "title", Type: simplepost.FieldTypeString, Title: "Title", HalfWidth: true},
					{ID: "keywords", Type: simplepost.FieldTypeString, Title: "Keywords", HalfWidth: true},
				},
			},
			{
				ID:             "links",
				Title:          "Related links",
				Collection:     true,
				ListTitleField: "label",
				Fields: []simplepost.FieldDefinition{
					{ID: "label", Type: simplepost.FieldTypeString, Title: "Label"},
					{ID: "url", Type: simplepost.FieldTypeString, Title: "URL"},
				},
			},
			{
				ID:         "quotes",
				Title:      "Quotes",
				Collection: true,
				Fields: []simplepost.FieldDefinition{
					{ID: "quote", Type: simplepost.FieldTypeText, Title: "Quote"},
				},
			},
		},
	}
}

func testRegistries() (*simplepost.TypeSet, *simplepost.FieldSet, *simplepost.BlockSet) {
	fields := simplepost.NewFieldSet()
	simplepost.RegisterDefaultFields(fields)

	blocks := simplepost.NewBlockSet()
	simplepost.RegisterDefaultBlocks(blocks)

	types := simplepost.NewTypeSet()
	types.Register(testPostType())

	return types, fields, blocks
}

type testEnv struct {
	svc     simplepost.Service
	repo    *memory.Repository
	site    simplepost.Site
	archive simplepost.Archive
	types   *simplepost.TypeSet
	fields  *simplepost.FieldSet
	blocks  *simplepost.BlockSet
}

func setupTestService(t *testing.T) *testEnv {
	t.Helper()

	types, fields, blocks := testRegistries()

	repo := memory.New()
	site := simplepost.Site{ID: uuid.New(), Title: "Test site", Default: true}
	repo.AddSite(site)
	archive := simplepost.Archive{ID: uuid.New(), SiteID: site.ID, Title: "Blog", Slug: "blog"}
	repo.AddArchive(archive)

	svc, err := simplepost.New(
		simplepost.WithRepository(repo),
		simplepost.WithTypeRegistry(types),
		simplepost.WithFieldRegistry(fields),
		simplepost.WithBlockRegistry(blocks),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return &testEnv{
		svc:     svc,
		repo:    repo,
		site:    site,
		archive: archive,
		types:   types,
		fields:  fields,
		blocks:  blocks,
	}
}

func stringValue(t *testing.T, fm simplepost.FieldModel) string {
	t.Helper()
	f, ok := fm.Value.(*simplepost.StringField)
	require.True(t, ok, "field %q is not a string field", fm.Meta.ID)
	return f.Value
}

func findField(t *testing.T, item simplepost.RegionItemModel, id string) simplepost.FieldModel {
	t.Helper()
	for _, fm := range item.Fields {
		if fm.Meta.ID == id {
			return fm
		}
	}
	t.Fatalf("field %q not found in region item", id)
	return simplepost.FieldModel{}
}
