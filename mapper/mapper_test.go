package mapper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelsud/salessuite-connector/mapper"
	"github.com/marcelsud/salessuite-connector/mapper/mocks"
	"github.com/marcelsud/salessuite-connector/property"
	"github.com/marcelsud/salessuite-connector/salessuite/crmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(fields []mapper.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.ID)
	}
	return out
}

func find(t *testing.T, fields []mapper.Field, id string) mapper.Field {
	t.Helper()
	for _, f := range fields {
		if f.ID == id {
			return f
		}
	}
	t.Fatalf("field %s not found", id)
	return mapper.Field{}
}

func TestContactFields(t *testing.T) {
	ctx := context.Background()

	t.Run("success - cards first, then other, system fields dropped", func(t *testing.T) {
		crm := crmtest.NewServer(t)
		b := mapper.NewBuilder(crm.APIClient())

		fields, err := b.ContactFields(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"contact.name",
			"contactPerson.email",
			"contactPerson.firstName",
			"contact.employees",
			"contact.tags",
			"contactPerson.newsletter",
		}, ids(fields))

		name := find(t, fields, "contact.name")
		assert.Equal(t, "Contact: Company", name.DisplayName)
		assert.Equal(t, "basics", name.Group)
		assert.False(t, name.Required)

		email := find(t, fields, "contactPerson.email")
		assert.Equal(t, "Contact Person: Email", email.DisplayName)
		assert.True(t, email.CanBeUsedToMatch)
		assert.True(t, email.DefaultMatch)

		tags := find(t, fields, "contact.tags")
		assert.Equal(t, "multiOptions", tags.Type)
		assert.Equal(t, mapper.OtherGroup, tags.Group)
		assert.Equal(t, []mapper.Choice{{Name: "VIP", Value: "vip"}, {Name: "Partner", Value: "partner"}}, tags.Options)

		news := find(t, fields, "contactPerson.newsletter")
		assert.Equal(t, "options", news.Type)
		assert.Len(t, news.Options, 2)
		assert.False(t, news.CanBeUsedToMatch)
	})

	t.Run("success - update variant clears match flags", func(t *testing.T) {
		crm := crmtest.NewServer(t)
		b := mapper.NewBuilder(crm.APIClient())

		fields, err := b.ContactFieldsForUpdate(ctx)

		require.NoError(t, err)
		for _, f := range fields {
			assert.False(t, f.Required, f.ID)
			assert.False(t, f.CanBeUsedToMatch, f.ID)
			assert.False(t, f.DefaultMatch, f.ID)
		}
	})

	t.Run("success - duplicated card entries are emitted once", func(t *testing.T) {
		email := property.Definition{ID: "1", PropertyIdentifier: "email", TableName: property.ContactPerson, TypeDefinition: property.String{}}
		src := mocks.NewSource(t)
		src.On("ContactFields", ctx).Return(property.FieldSet{
			Properties: []property.Definition{email},
			Cards: []property.Card{
				{ID: "a", DisplayName: "First", PropertyDefinitions: []property.Definition{email}},
				{ID: "b", PropertyDefinitions: []property.Definition{email}},
			},
		}, nil)

		fields, err := mapper.NewBuilder(src).ContactFields(ctx)

		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "First", fields[0].Group)
	})

	t.Run("success - card fields take their type from the property list", func(t *testing.T) {
		src := mocks.NewSource(t)
		src.On("ContactFields", ctx).Return(property.FieldSet{
			Properties: []property.Definition{
				{ID: "9", PropertyIdentifier: "score", TableName: property.Contact, TypeDefinition: property.Number{}},
			},
			Cards: []property.Card{
				{ID: "c", PropertyDefinitions: []property.Definition{
					{ID: "9", PropertyIdentifier: "score", TableName: property.Contact},
				}},
			},
		}, nil)

		fields, err := mapper.NewBuilder(src).ContactFields(ctx)

		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "number", fields[0].Type)
		assert.Equal(t, "Card", fields[0].Group)
		assert.Equal(t, "Contact: score", fields[0].DisplayName)
	})

	t.Run("error - source failure", func(t *testing.T) {
		src := mocks.NewSource(t)
		src.On("ContactFields", ctx).Return(property.FieldSet{}, errors.New("boom"))

		_, err := mapper.NewBuilder(src).ContactFields(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "building contact fields")
	})
}

func TestDealFields(t *testing.T) {
	ctx := context.Background()

	t.Run("success - name is never mapped", func(t *testing.T) {
		crm := crmtest.NewServer(t)
		b := mapper.NewBuilder(crm.APIClient())

		fields, err := b.DealFields(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"deal.value", "deal.closeDate", "deal.source"}, ids(fields))
		assert.Equal(t, "Deal", find(t, fields, "deal.value").Group)
		assert.Equal(t, "dateTime", find(t, fields, "deal.closeDate").Type)
		assert.Equal(t, "options", find(t, fields, "deal.source").Type)
		assert.Equal(t, "Value", find(t, fields, "deal.value").DisplayName)
	})

	t.Run("success - update variant", func(t *testing.T) {
		crm := crmtest.NewServer(t)
		fields, err := mapper.NewBuilder(crm.APIClient()).DealFieldsForUpdate(ctx)

		require.NoError(t, err)
		assert.NotContains(t, ids(fields), "deal.name")
	})
}

func TestWidget(t *testing.T) {
	typ, opts := mapper.Widget(nil)
	assert.Equal(t, "string", typ)
	assert.Nil(t, opts)

	typ, _ = mapper.Widget(property.Unknown{Name: "rating"})
	assert.Equal(t, "string", typ)

	typ, opts = mapper.Widget(property.Select{Options: []property.Option{{Key: "k", Label: "L"}}})
	assert.Equal(t, "options", typ)
	assert.Equal(t, []mapper.Choice{{Name: "L", Value: "k"}}, opts)
}

func TestPropertyChoices(t *testing.T) {
	choices := mapper.PropertyChoices([]property.Definition{
		{PropertyIdentifier: "b", DisplayLabel: "beta"},
		{PropertyIdentifier: "a", DisplayLabel: "Alpha"},
		{PropertyIdentifier: "zeta"},
	})

	assert.Equal(t, []mapper.Choice{
		{Name: "Alpha", Value: "a"},
		{Name: "beta", Value: "b"},
		{Name: "zeta", Value: "zeta"},
	}, choices)

	crm := crmtest.NewServer(t)
	dealChoices, err := mapper.NewBuilder(crm.APIClient()).DealPropertyChoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []mapper.Choice{
		{Name: "Close date", Value: "closeDate"},
		{Name: "Deal name", Value: "name"},
		{Name: "source", Value: "source"},
		{Name: "Value", Value: "value"},
	}, dealChoices)
}
